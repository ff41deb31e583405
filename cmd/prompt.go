package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"bioskop-cli/validate"
)

// ask fills value from a prompt when it was not given as a flag.
func ask(value *string, label string, check func(string) error) error {
	if strings.TrimSpace(*value) != "" {
		return nil
	}
	prompt := promptui.Prompt{
		Label:    label,
		Validate: check,
	}
	answer, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	*value = strings.TrimSpace(answer)
	return nil
}

// askSecret is ask with the input masked.
func askSecret(value *string, label string, check func(string) error) error {
	if *value != "" {
		return nil
	}
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: check,
	}
	answer, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	*value = answer
	return nil
}

func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

func choose(label string, items []string) (string, error) {
	sel := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}
	_, choice, err := sel.Run()
	return choice, err
}

func notBlank(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("is required")
	}
	return nil
}

// strongEnough shows the live strength label while the password is typed.
func strongEnough(input string) error {
	s := validate.PasswordStrength(input)
	if !s.Acceptable() {
		return fmt.Errorf("strength %s (%d/5)", s.Label(), s.Score())
	}
	return nil
}
