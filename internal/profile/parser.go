// Package profile recovers a structured dating profile from the loosely
// labeled text the model produces for a character.
package profile

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/schedule"
)

// ErrInvalidFormat is returned when profile assembly hits an unexpected
// internal failure. Callers must treat it as "AI output unusable" and must
// not invent a fallback profile; ordinary malformed lines never trigger it.
var ErrInvalidFormat = errors.New("invalid profile format")

// DatingProfile is the flat record persisted for a character. Every field
// is optional; absent values stay nil so the stored JSON round-trips with
// explicit nulls.
type DatingProfile struct {
	Bio          *string  `json:"bio"`
	Interests    []string `json:"interests"`
	FunFacts     []string `json:"funFacts"`
	Age          *int     `json:"age"`
	Occupation   *string  `json:"occupation"`
	LookingFor   *string  `json:"lookingFor"`
	Height       *string  `json:"height"`
	BodyType     *string  `json:"bodyType"`
	Measurements *string  `json:"measurements"`
}

// section tracks which multi-line field unlabeled lines belong to.
type section int

const (
	sectionNone section = iota
	sectionBio
	sectionFunFacts
)

// ParseProfile walks the normalized text line by line, filling fields as
// labels appear. Labels are case-sensitive and must sit at the start of
// the line. Per-line failures degrade to absent fields; only an internal
// invariant violation surfaces, as ErrInvalidFormat.
func ParseProfile(text string) (p *DatingProfile, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = ErrInvalidFormat
		}
	}()

	p = &DatingProfile{
		Interests: []string{},
		FunFacts:  []string{},
	}

	state := sectionNone

	for _, line := range strings.Split(schedule.Normalize(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Bio:"):
			state = sectionBio
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "Bio:")); rest != "" {
				p.appendBio(rest)
			}

		case strings.HasPrefix(line, "Interests:"):
			state = sectionNone
			for _, item := range strings.Split(strings.TrimPrefix(line, "Interests:"), ",") {
				if item = strings.TrimSpace(item); item != "" {
					p.Interests = append(p.Interests, item)
				}
			}

		case strings.HasPrefix(line, "Fun Facts:"):
			state = sectionFunFacts
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "Fun Facts:")); rest != "" {
				p.FunFacts = append(p.FunFacts, strings.TrimSpace(strings.TrimPrefix(rest, "-")))
			}

		case strings.HasPrefix(line, "Age:"):
			state = sectionNone
			if age, convErr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Age:"))); convErr == nil {
				p.Age = &age
			}

		case strings.HasPrefix(line, "Occupation:"):
			state = sectionNone
			p.Occupation = optionalValue(strings.TrimPrefix(line, "Occupation:"))

		case strings.HasPrefix(line, "Looking For:"):
			state = sectionNone
			p.LookingFor = optionalValue(strings.TrimPrefix(line, "Looking For:"))

		case strings.HasPrefix(line, "Height:"):
			state = sectionNone
			p.Height = verbatimValue(strings.TrimPrefix(line, "Height:"))

		case strings.HasPrefix(line, "Body Type:"):
			state = sectionNone
			p.BodyType = verbatimValue(strings.TrimPrefix(line, "Body Type:"))

		case strings.HasPrefix(line, "Measurements:"):
			state = sectionNone
			p.Measurements = optionalValue(strings.TrimPrefix(line, "Measurements:"))

		default:
			switch state {
			case sectionBio:
				p.appendBio(line)
			case sectionFunFacts:
				if strings.HasPrefix(line, "-") {
					p.FunFacts = append(p.FunFacts, strings.TrimSpace(strings.TrimPrefix(line, "-")))
				} else if n := len(p.FunFacts); n > 0 {
					p.FunFacts[n-1] += " " + line
				}
				// An unlabeled line before any fact is dropped.
			}
			// Outside any section, unrecognized lines are ignored.
		}
	}

	return p, nil
}

func (p *DatingProfile) appendBio(sentence string) {
	if p.Bio == nil {
		p.Bio = &sentence
		return
	}
	joined := *p.Bio + " " + sentence
	p.Bio = &joined
}

// optionalValue trims the remainder and treats empty or an explicit "none"
// (the model's not-applicable marker) as absent.
func optionalValue(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "none") {
		return nil
	}
	return &v
}

// verbatimValue keeps any non-empty trimmed string, including "none".
func verbatimValue(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	return &v
}
