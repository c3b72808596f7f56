package policy

type Validator[T any] interface {
	Validate(obj T) error
}

// CompoundValidator applies validators in order and stops at the first failure.
type CompoundValidator[T any] struct {
	validators []Validator[T]
}

func NewCompoundValidator[T any](validators ...Validator[T]) CompoundValidator[T] {
	return CompoundValidator[T]{
		validators: validators,
	}
}

func (c CompoundValidator[T]) Validate(obj T) error {
	for _, v := range c.validators {
		if err := v.Validate(obj); err != nil {
			return err
		}
	}
	return nil
}
