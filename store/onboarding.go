package store

import (
	"context"
	"fmt"
	"strings"
)

// Onboarding holds a user's structured onboarding answers together with the
// derived behavioral profile text. The profile is denormalized on purpose: it
// is recomputed wholesale from the answers on every upsert and never patched,
// so a stale partial profile cannot exist.
type Onboarding struct {
	UserID              int32
	UpdatedTs           int64
	Consistency         string
	Motivation          string
	StructurePreference string
	FreeTimeDesire      string
	Occupation          string
	Traits              string // comma-separated descriptive traits
	Activities          string // comma-separated activity preferences
	Entertainment       string // comma-separated entertainment preferences
	AgeRange            string
	Location            string
	Profile             string // derived text block, see BuildProfileText
}

// FindOnboarding is the find condition for onboarding answers.
type FindOnboarding struct {
	UserID int32
}

// UpsertOnboarding replaces the user's onboarding answers. The behavioral
// profile is regenerated from the incoming answers before the write; any
// Profile value supplied by the caller is ignored.
func (s *Store) UpsertOnboarding(ctx context.Context, upsert *Onboarding) (*Onboarding, error) {
	upsert.Profile = BuildProfileText(upsert)
	result, err := s.driver.UpsertOnboarding(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.onboardingCache.Set(onboardingCacheKey(result.UserID), result)
	return result, nil
}

// GetOnboarding returns the user's onboarding row, or nil if the user has not
// completed onboarding.
func (s *Store) GetOnboarding(ctx context.Context, find *FindOnboarding) (*Onboarding, error) {
	if cached, ok := s.onboardingCache.Get(onboardingCacheKey(find.UserID)); ok {
		return cached.(*Onboarding), nil
	}
	result, err := s.driver.GetOnboarding(ctx, find)
	if err != nil {
		return nil, err
	}
	if result != nil {
		s.onboardingCache.Set(onboardingCacheKey(result.UserID), result)
	}
	return result, nil
}

func onboardingCacheKey(userID int32) string {
	return fmt.Sprintf("onboarding-%d", userID)
}

// BuildProfileText derives the behavioral profile block from onboarding
// answers. The output is deterministic: same answers, same text. Empty answers
// are skipped rather than rendered as empty lines.
func BuildProfileText(o *Onboarding) string {
	var b strings.Builder
	writeLine := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString("- ")
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}

	writeLine("Consistency", o.Consistency)
	writeLine("Motivation", o.Motivation)
	writeLine("Prefers structure", o.StructurePreference)
	writeLine("Desired free time", o.FreeTimeDesire)
	writeLine("Occupation", o.Occupation)
	writeLine("Traits", o.Traits)
	writeLine("Enjoys", o.Activities)
	writeLine("Entertainment", o.Entertainment)
	writeLine("Age range", o.AgeRange)
	writeLine("Location", o.Location)

	return strings.TrimRight(b.String(), "\n")
}
