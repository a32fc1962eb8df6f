package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// promptString asks for one line of input.
func promptString(title, placeholder string, value *string) error {
	input := huh.NewInput().Title(title).Placeholder(placeholder).Value(value)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// promptPassword asks for a masked secret.
func promptPassword(title string, value *string) error {
	input := huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(value)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// promptCode asks for the 6-digit verification code.
func promptCode(value *string) error {
	input := huh.NewInput().
		Title("Verification code").
		Placeholder("123456").
		CharLimit(6).
		Value(value)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// promptSelect asks for one of a fixed set of options.
func promptSelect(title string, options []string, value *string) error {
	sel := huh.NewSelect[string]().Title(title).Options(huh.NewOptions(options...)...).Value(value)
	if err := huh.NewForm(huh.NewGroup(sel)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
