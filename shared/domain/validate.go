package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateProject trims the name in place and checks field constraints.
func ValidateProject(d *ProjectCreationData) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = trimOptional(d.Description)
	if err := structErr(validate.Struct(d)); err != nil {
		return err
	}
	if !d.Visibility.Valid() {
		return internal_errors.Validation("visibility must be one of: team, personal")
	}
	return nil
}

func ValidateColumn(d *ColumnCreationData) error {
	d.Title = strings.TrimSpace(d.Title)
	d.HeroImageURL = trimOptional(d.HeroImageURL)
	return structErr(validate.Struct(d))
}

// ValidateCard trims text fields, applies the status and priority defaults
// and checks field constraints.
func ValidateCard(d *CardCreationData) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = trimOptional(d.Description)
	if d.Status == "" {
		d.Status = DefaultStatus
	}
	if d.Priority == "" {
		d.Priority = DefaultPriority
	}
	if err := structErr(validate.Struct(d)); err != nil {
		return err
	}
	return validateCardFields(&d.Status, &d.Priority, d.Effort, d.StartDate, d.DueDate)
}

func ValidateCardPatch(p *CardPatch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return internal_errors.Validation("title is required")
		}
		p.Title = &title
	}
	p.Description = trimOptional(p.Description)
	if err := structErr(validate.Struct(p)); err != nil {
		return err
	}
	return validateCardFields(p.Status, p.Priority, p.Effort, p.StartDate, p.DueDate)
}

func validateCardFields(status *CardStatus, priority *CardPriority, effort *int, start, due *time.Time) error {
	if status != nil && !status.Valid() {
		return internal_errors.Validation("status %q is not one of: in_progress, blocked, needs_review, complete", *status)
	}
	if priority != nil && !priority.Valid() {
		return internal_errors.Validation("priority %q is not one of: very_low, low, medium, high, extreme", *priority)
	}
	if effort != nil && (*effort < MinEffort || *effort > MaxEffort) {
		return internal_errors.Validation("effort must be between %d and %d", MinEffort, MaxEffort)
	}
	if start != nil && due != nil && due.Before(*start) {
		return internal_errors.Validation("due date must not be before start date")
	}
	return nil
}

func ValidateRole(r Role) error {
	if r != RoleEditor && r != RoleViewer {
		return internal_errors.Validation("role must be one of: editor, viewer")
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// structErr converts validator output into a single ValidationError naming the first bad field.
func structErr(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return internal_errors.Wrap(internal_errors.KindValidation, "invalid input", err)
	}
	fe := fieldErrs[0]
	field := fieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return internal_errors.Validation("%s is required", field)
	case "max":
		return internal_errors.Validation("%s must be at most %s characters", field, fe.Param())
	case "url":
		return internal_errors.Validation("%s must be a valid URL", field)
	default:
		return internal_errors.Validation("%s is invalid", field)
	}
}

func fieldName(goName string) string {
	switch goName {
	case "HeroImageURL":
		return "hero image"
	case "ProjectId":
		return "project id"
	case "ColumnId":
		return "column id"
	default:
		return strings.ToLower(goName)
	}
}

// for debug
func (c *Card) String() string {
	column := "none"
	if c.ColumnId != nil {
		column = c.ColumnId.String()
	}
	return fmt.Sprintf("[id:%s, title:%s, column:%s, status:%s, priority:%s, position:%.0f/%d]", c.Id, c.Title, column, c.Status, c.Priority, c.Position, c.Seq)
}
