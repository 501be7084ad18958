// Package learning persists user corrections to extracted documents
// and replays them: once an invoice from an issuer has been fixed by
// hand, later documents matching the same pattern get the corrected
// accounts suggested automatically.
package learning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/extraction"
)

var correctionsBucket = []byte("corrections")

// matchThreshold is the minimum score for a saved correction to be
// applied. Issuer matches alone clear it; recipient or description
// matches only reinforce.
const matchThreshold = 50

// Pattern identifies the documents a correction applies to. Issuer is
// the primary key; the other fields refine scoring.
type Pattern struct {
	Issuer              string `json:"issuer,omitempty"`
	Recipient           string `json:"recipient,omitempty"`
	DescriptionContains string `json:"description_contains,omitempty"`
}

// Correction is the account assignment a user settled on.
type Correction struct {
	DebitAccount      string `json:"debit_account,omitempty"`
	DebitSubAccount   string `json:"debit_sub_account,omitempty"`
	DebitTaxCategory  string `json:"debit_tax_category,omitempty"`
	CreditAccount     string `json:"credit_account,omitempty"`
	CreditSubAccount  string `json:"credit_sub_account,omitempty"`
	CreditTaxCategory string `json:"credit_tax_category,omitempty"`
	InvoiceType       string `json:"invoice_type,omitempty"`
}

// SavedCorrection is one learned pattern with its usage count.
type SavedCorrection struct {
	ID         string     `json:"id"`
	Pattern    Pattern    `json:"pattern"`
	Correction Correction `json:"correction"`
	Count      int        `json:"count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Store is the bbolt-backed correction store.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the correction store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open learning store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(correctionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize learning store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PatternFor builds the matching pattern for a record.
func PatternFor(r *extraction.Record) Pattern {
	return Pattern{
		Issuer:              strings.TrimSpace(r.Issuer),
		Recipient:           strings.TrimSpace(r.Recipient),
		DescriptionContains: strings.TrimSpace(r.Description),
	}
}

// SaveCorrection stores a correction for the record's pattern. A
// pattern with the same issuer is updated in place and its usage
// count incremented; anything else becomes a new pattern.
func (s *Store) SaveCorrection(original *extraction.Record, correction Correction) (*SavedCorrection, error) {
	pattern := PatternFor(original)
	now := time.Now().UTC()

	var saved SavedCorrection
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(correctionsBucket)

		if existing := findByIssuerTx(b, pattern.Issuer); existing != nil {
			existing.Correction = correction
			existing.Count++
			existing.UpdatedAt = now
			saved = *existing
			return putTx(b, existing)
		}

		saved = SavedCorrection{
			ID:         uuid.NewString(),
			Pattern:    pattern,
			Correction: correction,
			Count:      1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return putTx(b, &saved)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save correction: %w", err)
	}
	return &saved, nil
}

// FindMatching scores all saved patterns against the record and
// returns the best one at or above the match threshold.
func (s *Store) FindMatching(r *extraction.Record) (*SavedCorrection, error) {
	issuer := strings.TrimSpace(r.Issuer)
	recipient := strings.TrimSpace(r.Recipient)
	description := strings.TrimSpace(r.Description)

	var best *SavedCorrection
	bestScore := 0

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(correctionsBucket).ForEach(func(_, v []byte) error {
			var c SavedCorrection
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("corrupt correction record: %w", err)
			}

			score := matchScore(c, issuer, recipient, description)
			if score > bestScore {
				bestScore = score
				saved := c
				best = &saved
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search corrections: %w", err)
	}

	if bestScore < matchThreshold {
		return nil, nil
	}
	return best, nil
}

func matchScore(c SavedCorrection, issuer, recipient, description string) int {
	score := 0

	if c.Pattern.Issuer != "" && issuer != "" {
		switch {
		case c.Pattern.Issuer == issuer:
			score += 100
		case strings.Contains(issuer, c.Pattern.Issuer) || strings.Contains(c.Pattern.Issuer, issuer):
			score += 50
		}
	}
	if c.Pattern.Recipient != "" && recipient != "" {
		switch {
		case c.Pattern.Recipient == recipient:
			score += 30
		case strings.Contains(recipient, c.Pattern.Recipient) || strings.Contains(c.Pattern.Recipient, recipient):
			score += 15
		}
	}
	if c.Pattern.DescriptionContains != "" && description != "" {
		if strings.Contains(description, c.Pattern.DescriptionContains) {
			score += 20
		}
	}

	// Frequently confirmed patterns win ties.
	bonus := c.Count
	if bonus > 10 {
		bonus = 10
	}
	return score + bonus
}

// Apply copies a saved correction onto the record's suggestion fields.
func Apply(r *extraction.Record, c *SavedCorrection) {
	corr := c.Correction
	if corr.DebitAccount != "" {
		r.SuggestedDebitAccount = corr.DebitAccount
	}
	if corr.DebitSubAccount != "" {
		r.SuggestedDebitSubAccount = corr.DebitSubAccount
	}
	if corr.DebitTaxCategory != "" {
		r.SuggestedDebitTaxCategory = corr.DebitTaxCategory
	}
	if corr.CreditAccount != "" {
		r.SuggestedCreditAccount = corr.CreditAccount
	}
	if corr.CreditSubAccount != "" {
		r.SuggestedCreditSubAccount = corr.CreditSubAccount
	}
	if corr.CreditTaxCategory != "" {
		r.SuggestedCreditTaxCategory = corr.CreditTaxCategory
	}
	if corr.InvoiceType != "" {
		r.InvoiceType = corr.InvoiceType
	}
	r.LearningApplied = true
	r.LearningCount = c.Count
}

// List returns all saved corrections.
func (s *Store) List() ([]SavedCorrection, error) {
	var corrections []SavedCorrection
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(correctionsBucket).ForEach(func(_, v []byte) error {
			var c SavedCorrection
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("corrupt correction record: %w", err)
			}
			corrections = append(corrections, c)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	return corrections, nil
}

// Delete removes a correction by id. Returns false when the id does
// not exist.
func (s *Store) Delete(id string) (bool, error) {
	deleted := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(correctionsBucket)
		if b.Get([]byte(id)) == nil {
			return nil
		}
		deleted = true
		return b.Delete([]byte(id))
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete correction: %w", err)
	}
	return deleted, nil
}

// Clear removes all saved corrections.
func (s *Store) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(correctionsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(correctionsBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear corrections: %w", err)
	}
	return nil
}

func findByIssuerTx(b *bolt.Bucket, issuer string) *SavedCorrection {
	if issuer == "" {
		return nil
	}
	var found *SavedCorrection
	b.ForEach(func(_, v []byte) error {
		var c SavedCorrection
		if json.Unmarshal(v, &c) != nil {
			return nil
		}
		if c.Pattern.Issuer == issuer {
			found = &c
		}
		return nil
	})
	return found
}

func putTx(b *bolt.Bucket, c *SavedCorrection) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return b.Put([]byte(c.ID), data)
}
