package models

// GameMode is the derived bet classification of a play
type GameMode string

const (
	GameModePick3      GameMode = "Pick 3"
	GameModeWin4       GameMode = "Win 4"
	GameModePulito     GameMode = "Pulito"
	GameModeRDQuiniela GameMode = "RD-Quiniela"
	GameModePale       GameMode = "Palé"
	GameModePaleRD     GameMode = "Pale-RD"
	GameModeUnset      GameMode = "-"
)

// GameModes lists every valid classification, excluding the unset sentinel
var GameModes = []GameMode{
	GameModePick3,
	GameModeWin4,
	GameModePulito,
	GameModeRDQuiniela,
	GameModePale,
	GameModePaleRD,
}

// IsSet reports whether the mode is a real classification
func (m GameMode) IsSet() bool {
	return m != GameModeUnset && m != ""
}

func (m GameMode) String() string {
	return string(m)
}
