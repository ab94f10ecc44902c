// Package seed loads reference data (skills, offices, users, consultants)
// from a YAML file into the database. Applying the same file twice is a no-op.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/auth"
	"go-recruitment-crm/pkg/logger"

	"gopkg.in/yaml.v3"
)

type File struct {
	Skills      []Skill      `yaml:"skills"`
	Offices     []Office     `yaml:"offices"`
	Users       []User       `yaml:"users"`
	Consultants []Consultant `yaml:"consultants"`
}

type Skill struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type Office struct {
	Name     string `yaml:"name"`
	City     string `yaml:"city"`
	Country  string `yaml:"country"`
	Address  string `yaml:"address"`
	Timezone string `yaml:"timezone"`
	Phone    string `yaml:"phone"`
}

type User struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Role      string `yaml:"role"`
}

// Consultant links an existing (or seeded) user to an office by name.
type Consultant struct {
	Email           string   `yaml:"email"`
	Office          string   `yaml:"office"`
	Title           string   `yaml:"title"`
	Specializations []string `yaml:"specializations"`
}

// Parse decodes and validates a seed file. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	for i, s := range f.Skills {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("skills[%d]: name is required", i)
		}
		if s.Category != "" && !domain.SkillCategory(s.Category).Valid() {
			return fmt.Errorf("skills[%d]: unknown category %q", i, s.Category)
		}
	}
	for i, o := range f.Offices {
		if strings.TrimSpace(o.Name) == "" {
			return fmt.Errorf("offices[%d]: name is required", i)
		}
	}
	for i, u := range f.Users {
		if u.Email == "" || u.FirstName == "" || u.LastName == "" {
			return fmt.Errorf("users[%d]: email, first_name and last_name are required", i)
		}
		if !domain.Role(u.Role).Valid() {
			return fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
		if len(u.Password) < auth.MinPasswordLength {
			return fmt.Errorf("users[%d]: %w", i, auth.ErrPasswordTooShort)
		}
	}
	for i, c := range f.Consultants {
		if c.Email == "" {
			return fmt.Errorf("consultants[%d]: email is required", i)
		}
	}
	return nil
}

// Report counts what Apply created and what already existed.
type Report struct {
	Created map[string]int
	Skipped map[string]int
}

func newReport() Report {
	return Report{Created: map[string]int{}, Skipped: map[string]int{}}
}

func (r Report) record(kind string, created bool) {
	if created {
		r.Created[kind]++
	} else {
		r.Skipped[kind]++
	}
}

type Seeder struct {
	users       domain.UserRepository
	skills      domain.SkillRepository
	offices     domain.OfficeRepository
	consultants domain.ConsultantRepository
}

func NewSeeder(users domain.UserRepository, skills domain.SkillRepository, offices domain.OfficeRepository, consultants domain.ConsultantRepository) *Seeder {
	return &Seeder{users: users, skills: skills, offices: offices, consultants: consultants}
}

// Apply writes f in dependency order: skills, offices, users, consultants.
func (s *Seeder) Apply(ctx context.Context, f *File) (Report, error) {
	report := newReport()

	for _, sk := range f.Skills {
		category := domain.SkillCategory(sk.Category)
		if category == "" {
			category = domain.SkillTechnical
		}
		if _, err := s.skills.UpsertByName(ctx, strings.TrimSpace(sk.Name), category); err != nil {
			return report, fmt.Errorf("skill %q: %w", sk.Name, err)
		}
		report.record("skills", true)
	}

	officeIDs, err := s.existingOffices(ctx)
	if err != nil {
		return report, err
	}
	for _, o := range f.Offices {
		key := strings.ToLower(strings.TrimSpace(o.Name))
		if _, ok := officeIDs[key]; ok {
			report.record("offices", false)
			continue
		}
		office := &domain.Office{
			Name:     strings.TrimSpace(o.Name),
			City:     o.City,
			Country:  o.Country,
			Address:  o.Address,
			Timezone: o.Timezone,
			Phone:    optional(o.Phone),
		}
		if office.Timezone == "" {
			office.Timezone = "UTC"
		}
		if err := s.offices.Create(ctx, office); err != nil {
			return report, fmt.Errorf("office %q: %w", o.Name, err)
		}
		officeIDs[key] = office.ID
		report.record("offices", true)
	}

	for _, u := range f.Users {
		created, err := s.ensureUser(ctx, u)
		if err != nil {
			return report, fmt.Errorf("user %q: %w", u.Email, err)
		}
		report.record("users", created)
	}

	for _, c := range f.Consultants {
		user, err := s.users.GetByEmail(ctx, strings.ToLower(c.Email))
		if err != nil {
			return report, fmt.Errorf("consultant %q: %w", c.Email, err)
		}
		consultant := &domain.Consultant{
			UserID:          user.ID,
			Title:           c.Title,
			Specializations: c.Specializations,
			IsActive:        true,
		}
		if c.Office != "" {
			id, ok := officeIDs[strings.ToLower(strings.TrimSpace(c.Office))]
			if !ok {
				return report, fmt.Errorf("consultant %q: unknown office %q", c.Email, c.Office)
			}
			consultant.OfficeID = &id
		}
		err = s.consultants.Create(ctx, consultant)
		if isConflict(err) {
			report.record("consultants", false)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("consultant %q: %w", c.Email, err)
		}
		report.record("consultants", true)
	}

	logger.Log.Info("seed applied", "created", report.Created, "skipped", report.Skipped)
	return report, nil
}

func (s *Seeder) ensureUser(ctx context.Context, u User) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return false, err
	}
	return true, s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         domain.Role(u.Role),
	})
}

// existingOffices maps lower-cased office names to ids.
func (s *Seeder) existingOffices(ctx context.Context) (map[string]string, error) {
	ids := make(map[string]string)
	page := domain.PageQuery{Page: 1, PageSize: domain.MaxPageSize}
	for {
		offices, total, err := s.offices.List(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("list offices: %w", err)
		}
		for _, o := range offices {
			ids[strings.ToLower(o.Name)] = o.ID
		}
		if len(offices) == 0 || int64(page.Page*page.PageSize) >= total {
			return ids, nil
		}
		page.Page++
	}
}

func isConflict(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusConflict
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
