package roulette

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RequiredMessage is shown next to the input when a label is blank.
const RequiredMessage = "Este campo es requerido"

// LabelField names the input field validation errors refer to.
const LabelField = "new_value"

// Option is one user-entered label.
type Option struct {
	ID    string
	Value string
}

// ValidationError rejects a label before it reaches the registry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type labelInput struct {
	Value string `validate:"required"`
}

// Registry is the ordered option list. It is not safe for concurrent use;
// the game loop owns it.
type Registry struct {
	options   []Option
	validate  *validator.Validate
	newID     func() string
	listeners []func()
}

type RegistryOption func(*Registry)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) RegistryOption {
	return func(r *Registry) {
		r.newID = gen
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		validate: validator.New(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers fn to run after every successful mutation.
func (r *Registry) Subscribe(fn func()) {
	r.listeners = append(r.listeners, fn)
}

func (r *Registry) notify() {
	for _, fn := range r.listeners {
		fn()
	}
}

func (r *Registry) checkLabel(label string) error {
	if err := r.validate.Struct(labelInput{Value: strings.TrimSpace(label)}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ValidationError{Field: LabelField, Message: RequiredMessage}
		}
		return err
	}
	return nil
}

// Add appends a new option with a fresh ID.
func (r *Registry) Add(label string) (Option, error) {
	if err := r.checkLabel(label); err != nil {
		return Option{}, err
	}

	opt := Option{ID: r.uniqueID(), Value: label}
	r.options = append(r.options, opt)
	r.notify()

	return opt, nil
}

func (r *Registry) uniqueID() string {
	for {
		id := r.newID()
		if id != "" && r.indexOf(id) < 0 {
			return id
		}
	}
}

// Update relabels the option with the given id. It reports false when no
// such option exists.
func (r *Registry) Update(id, label string) (bool, error) {
	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	if err := r.checkLabel(label); err != nil {
		return false, err
	}
	if r.options[i].Value == label {
		return true, nil
	}

	r.options[i].Value = label
	r.notify()

	return true, nil
}

// Remove deletes the option with the given id. It reports false when no
// such option exists.
func (r *Registry) Remove(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}

	r.options = append(r.options[:i], r.options[i+1:]...)
	r.notify()

	return true
}

func (r *Registry) Get(id string) (Option, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return Option{}, false
	}
	return r.options[i], true
}

// Options returns a copy of the list in insertion order.
func (r *Registry) Options() []Option {
	out := make([]Option, len(r.options))
	copy(out, r.options)
	return out
}

func (r *Registry) Len() int {
	return len(r.options)
}

func (r *Registry) indexOf(id string) int {
	for i := range r.options {
		if r.options[i].ID == id {
			return i
		}
	}
	return -1
}
