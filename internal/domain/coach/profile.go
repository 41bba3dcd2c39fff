package coach

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/shared/biztime"
)

const (
	maxHeadlineLength  = 160
	maxSpecialties     = 10
	maxSpecialtyLength = 40
)

// ProviderNone marks a profile that does not take bookings yet.
const ProviderNone integration.Provider = ""

var titleCaser = cases.Title(language.English)

// Profile is the public marketplace listing of a coach.
type Profile struct {
	userID                string
	headline              string
	bioMarkdown           string
	bioHTML               string
	specialties           []string
	hourlyRateCents       int64
	currency              string
	yearsExperience       int
	acceptingClients      bool
	provider              integration.Provider
	calcomEventTypeID     *int64
	calendlySchedulingURL string
	createdAt             time.Time
	updatedAt             time.Time
}

// ProfileInput carries the editable fields of a profile.
type ProfileInput struct {
	Headline              string
	BioMarkdown           string
	BioHTML               string
	Specialties           []string
	HourlyRateCents       int64
	Currency              string
	YearsExperience       int
	AcceptingClients      bool
	Provider              integration.Provider
	CalcomEventTypeID     *int64
	CalendlySchedulingURL string
}

func NewProfile(userID string, in ProfileInput) (*Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	now := biztime.NowUTC()
	p := &Profile{userID: userID, createdAt: now}
	if err := p.apply(in); err != nil {
		return nil, err
	}
	p.updatedAt = now
	return p, nil
}

func ReconstructProfile(
	userID string,
	headline, bioMarkdown, bioHTML string,
	specialties []string,
	hourlyRateCents int64,
	currency string,
	yearsExperience int,
	acceptingClients bool,
	provider integration.Provider,
	calcomEventTypeID *int64,
	calendlySchedulingURL string,
	createdAt, updatedAt time.Time,
) *Profile {
	if specialties == nil {
		specialties = []string{}
	}
	return &Profile{
		userID:                userID,
		headline:              headline,
		bioMarkdown:           bioMarkdown,
		bioHTML:               bioHTML,
		specialties:           specialties,
		hourlyRateCents:       hourlyRateCents,
		currency:              currency,
		yearsExperience:       yearsExperience,
		acceptingClients:      acceptingClients,
		provider:              provider,
		calcomEventTypeID:     calcomEventTypeID,
		calendlySchedulingURL: calendlySchedulingURL,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// Update replaces all editable fields.
func (p *Profile) Update(in ProfileInput) error {
	if err := p.apply(in); err != nil {
		return err
	}
	p.updatedAt = biztime.NowUTC()
	return nil
}

func (p *Profile) apply(in ProfileInput) error {
	headline := strings.TrimSpace(in.Headline)
	if headline == "" {
		return fmt.Errorf("headline is required")
	}
	if len(headline) > maxHeadlineLength {
		return fmt.Errorf("headline exceeds maximum length of %d characters", maxHeadlineLength)
	}
	if in.HourlyRateCents < 0 {
		return fmt.Errorf("hourly rate cannot be negative")
	}
	if in.YearsExperience < 0 || in.YearsExperience > 80 {
		return fmt.Errorf("years of experience out of range")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return fmt.Errorf("invalid currency: %s", in.Currency)
	}
	if in.Provider != ProviderNone && !in.Provider.IsValid() {
		return fmt.Errorf("invalid provider: %s", in.Provider)
	}
	switch in.Provider {
	case integration.ProviderCalcom:
		if in.CalcomEventTypeID == nil || *in.CalcomEventTypeID <= 0 {
			return fmt.Errorf("cal.com event type ID is required")
		}
	case integration.ProviderCalendly:
		u, err := url.Parse(in.CalendlySchedulingURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("calendly scheduling URL must be an https URL")
		}
	}
	specialties, err := NormalizeSpecialties(in.Specialties)
	if err != nil {
		return err
	}

	p.headline = headline
	p.bioMarkdown = in.BioMarkdown
	p.bioHTML = in.BioHTML
	p.specialties = specialties
	p.hourlyRateCents = in.HourlyRateCents
	p.currency = currency
	p.yearsExperience = in.YearsExperience
	p.acceptingClients = in.AcceptingClients
	p.provider = in.Provider
	p.calcomEventTypeID = in.CalcomEventTypeID
	p.calendlySchedulingURL = in.CalendlySchedulingURL
	return nil
}

// NormalizeSpecialties title-cases, de-duplicates and sorts specialty tags.
func NormalizeSpecialties(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		if len(s) > maxSpecialtyLength {
			return nil, fmt.Errorf("specialty %q exceeds maximum length of %d characters", s, maxSpecialtyLength)
		}
		s = titleCaser.String(strings.ToLower(s))
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) > maxSpecialties {
		return nil, fmt.Errorf("at most %d specialties are allowed", maxSpecialties)
	}
	sort.Strings(out)
	return out, nil
}

func (p *Profile) UserID() string                 { return p.userID }
func (p *Profile) Headline() string               { return p.headline }
func (p *Profile) BioMarkdown() string            { return p.bioMarkdown }
func (p *Profile) BioHTML() string                { return p.bioHTML }
func (p *Profile) HourlyRateCents() int64         { return p.hourlyRateCents }
func (p *Profile) Currency() string               { return p.currency }
func (p *Profile) YearsExperience() int           { return p.yearsExperience }
func (p *Profile) AcceptingClients() bool         { return p.acceptingClients }
func (p *Profile) Provider() integration.Provider { return p.provider }
func (p *Profile) CalcomEventTypeID() *int64      { return p.calcomEventTypeID }
func (p *Profile) CalendlySchedulingURL() string  { return p.calendlySchedulingURL }
func (p *Profile) CreatedAt() time.Time           { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time           { return p.updatedAt }

func (p *Profile) Specialties() []string {
	out := make([]string, len(p.specialties))
	copy(out, p.specialties)
	return out
}

// IsBookable reports whether mentees can currently book this coach.
func (p *Profile) IsBookable() bool {
	return p.acceptingClients && p.provider != ProviderNone
}
