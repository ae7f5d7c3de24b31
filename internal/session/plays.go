package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/metrics"
	"github.com/yourusername/beast-reader/internal/models"
)

// AddPlay appends an empty play. It fails when the session is full.
func (s *Session) AddPlay() (models.Play, error) {
	s.mu.Lock()
	if len(s.plays) >= s.cfg.MaxPlays {
		n := len(s.plays)
		s.mu.Unlock()
		s.rejected(models.PlaySourceManual, 1, n)
		return models.Play{}, models.NewUserError(models.ErrCapacityExceeded,
			fmt.Sprintf("You have reached the limit of %d plays.", s.cfg.MaxPlays))
	}

	play := models.Play{
		ID:       s.newID(),
		GameMode: models.GameModeUnset,
	}
	s.plays = append(append(make([]models.Play, 0, len(s.plays)+1), s.plays...), play)
	total := len(s.plays)
	notify := s.commit()
	s.mu.Unlock()

	notify()
	s.added(models.PlaySourceManual, 1, total)
	return play, nil
}

// UpdatePlay applies a single-field change. Bet number changes reclassify the play.
func (s *Session) UpdatePlay(id uuid.UUID, update models.PlayUpdate) (models.Play, error) {
	if err := validateUpdate(update); err != nil {
		return models.Play{}, err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Play{}, fmt.Errorf("play %s: %w", id, models.ErrNotFound)
	}

	play := s.plays[idx].Clone()
	switch u := update.(type) {
	case models.BetNumberUpdate:
		play.BetNumber = models.TruncateBetNumber(u.Value)
		play.GameMode = calculator.Classify(play.BetNumber, s.tracks)
	case models.StraightAmountUpdate:
		play.StraightAmount = models.CloneAmount(u.Value)
	case models.BoxAmountUpdate:
		play.BoxAmount = models.CloneAmount(u.Value)
	case models.ComboAmountUpdate:
		play.ComboAmount = models.CloneAmount(u.Value)
	default:
		s.mu.Unlock()
		return models.Play{}, fmt.Errorf("%w: %T", models.ErrUnknownPlayField, update)
	}

	next := append([]models.Play(nil), s.plays...)
	next[idx] = play
	s.plays = next
	notify := s.commit()
	s.mu.Unlock()

	notify()
	return play.Clone(), nil
}

// RemovePlay deletes a single play
func (s *Session) RemovePlay(id uuid.UUID) error {
	if s.RemovePlays([]uuid.UUID{id}) == 0 {
		return fmt.Errorf("play %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// RemovePlays deletes every play whose id is listed and returns how many were removed
func (s *Session) RemovePlays(ids []uuid.UUID) int {
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	next := make([]models.Play, 0, len(s.plays))
	for _, p := range s.plays {
		if _, ok := drop[p.ID]; !ok {
			next = append(next, p)
		}
	}
	removed := len(s.plays) - len(next)
	if removed == 0 {
		s.mu.Unlock()
		return 0
	}
	s.plays = next
	total := len(next)
	notify := s.commit()
	s.mu.Unlock()

	notify()
	metrics.RecordPlaysRemoved(removed)
	if s.audit != nil {
		s.audit.LogPlaysRemoved(removed, total)
	}
	return removed
}

// CopyAmounts returns the stakes of a play so they can be pasted onto others
func (s *Session) CopyAmounts(id uuid.UUID) (models.Amounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Amounts{}, fmt.Errorf("play %s: %w", id, models.ErrNotFound)
	}
	return s.plays[idx].Amounts(), nil
}

// PasteAmounts overwrites the stakes of the listed plays. Absent amounts in
// the pasted set leave the target's existing value untouched.
func (s *Session) PasteAmounts(amounts *models.Amounts, ids []uuid.UUID) (int, error) {
	if amounts == nil {
		return 0, models.NewUserError(models.ErrNothingToPaste, "Copy amounts first.")
	}
	if len(ids) == 0 {
		return 0, models.NewUserError(models.ErrNoSelection, "Select rows to paste amounts to.")
	}
	if err := amounts.Validate(); err != nil {
		return 0, err
	}
	targets := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}

	s.mu.Lock()
	next := make([]models.Play, len(s.plays))
	changed := 0
	for i, p := range s.plays {
		if _, ok := targets[p.ID]; ok {
			p = p.Clone()
			if amounts.Straight != nil {
				p.StraightAmount = models.CloneAmount(amounts.Straight)
			}
			if amounts.Box != nil {
				p.BoxAmount = models.CloneAmount(amounts.Box)
			}
			if amounts.Combo != nil {
				p.ComboAmount = models.CloneAmount(amounts.Combo)
			}
			changed++
		}
		next[i] = p
	}
	if changed == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.plays = next
	notify := s.commit()
	s.mu.Unlock()

	notify()
	return changed, nil
}

// AddWizardPlays appends plays staged by the quick-entry wizard. The batch is
// rejected entirely when it would exceed the play limit or carries a
// negative stake.
func (s *Session) AddWizardPlays(staged []models.WizardPlay) ([]models.Play, error) {
	plays := make([]models.Play, len(staged))
	for i, wp := range staged {
		plays[i] = models.Play{
			BetNumber:      models.TruncateBetNumber(wp.BetNumber),
			StraightAmount: models.CloneAmount(wp.Straight),
			BoxAmount:      models.CloneAmount(wp.Box),
			ComboAmount:    models.CloneAmount(wp.Combo),
		}
	}
	return s.addBatch(models.PlaySourceWizard, plays)
}

// AddOCRResults appends plays read from a ticket image. Game modes are
// derived locally; the batch is all-or-nothing like AddWizardPlays.
func (s *Session) AddOCRResults(results []models.OCRResult) ([]models.Play, error) {
	plays := make([]models.Play, len(results))
	for i, r := range results {
		plays[i] = models.Play{
			BetNumber:      models.TruncateBetNumber(r.BetNumber),
			StraightAmount: models.CloneAmount(r.StraightAmount),
			BoxAmount:      models.CloneAmount(r.BoxAmount),
			ComboAmount:    models.CloneAmount(r.ComboAmount),
		}
	}
	return s.addBatch(models.PlaySourceOCR, plays)
}

func (s *Session) addBatch(source models.PlaySource, plays []models.Play) ([]models.Play, error) {
	if len(plays) == 0 {
		return []models.Play{}, nil
	}
	for _, p := range plays {
		if err := p.Amounts().Validate(); err != nil {
			metrics.RecordPlaysRejected(string(source), len(plays))
			return nil, err
		}
	}

	s.mu.Lock()
	if len(s.plays)+len(plays) > s.cfg.MaxPlays {
		n := len(s.plays)
		s.mu.Unlock()
		s.rejected(source, len(plays), n)
		return nil, models.NewUserError(models.ErrCapacityExceeded,
			fmt.Sprintf("Cannot add all plays. The maximum of %d would be exceeded.", s.cfg.MaxPlays))
	}

	added := make([]models.Play, len(plays))
	for i, p := range plays {
		p.ID = s.newID()
		p.GameMode = calculator.Classify(p.BetNumber, s.tracks)
		added[i] = p
	}
	next := make([]models.Play, 0, len(s.plays)+len(added))
	next = append(next, s.plays...)
	next = append(next, added...)
	s.plays = next
	total := len(next)
	notify := s.commit()
	s.mu.Unlock()

	notify()
	s.added(source, len(added), total)
	return models.SessionState{Plays: added}.Clone().Plays, nil
}

func validateUpdate(update models.PlayUpdate) error {
	switch u := update.(type) {
	case models.StraightAmountUpdate:
		return models.Amounts{Straight: u.Value}.Validate()
	case models.BoxAmountUpdate:
		return models.Amounts{Box: u.Value}.Validate()
	case models.ComboAmountUpdate:
		return models.Amounts{Combo: u.Value}.Validate()
	}
	return nil
}

func (s *Session) indexLocked(id uuid.UUID) int {
	for i, p := range s.plays {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) added(source models.PlaySource, count, total int) {
	metrics.RecordPlaysAdded(string(source), count)
	if s.audit != nil {
		s.audit.LogPlaysAdded(string(source), count, total)
	}
}

func (s *Session) rejected(source models.PlaySource, requested, current int) {
	metrics.RecordPlaysRejected(string(source), requested)
	if s.audit != nil {
		s.audit.LogPlaysRejected(string(source), requested, current, s.cfg.MaxPlays)
	}
}
