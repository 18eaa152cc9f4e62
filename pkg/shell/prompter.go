package shell

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted is returned by a Prompter when the user presses Ctrl+C
var ErrInterrupted = errors.New("interrupted")

// Prompter asks the user for input
type Prompter interface {
	Input(message string) (string, error)
	Password(message string) (string, error)
	Multiline(message string) (string, error)
	Select(message string, options []string) (string, error)
}

// SurveyPrompter prompts on the terminal
type SurveyPrompter struct{}

func (SurveyPrompter) Input(message string) (string, error) {
	return ask(&survey.Input{Message: message})
}

func (SurveyPrompter) Password(message string) (string, error) {
	return ask(&survey.Password{Message: message})
}

func (SurveyPrompter) Multiline(message string) (string, error) {
	return ask(&survey.Multiline{Message: message})
}

func (SurveyPrompter) Select(message string, options []string) (string, error) {
	return ask(&survey.Select{Message: message, Options: options})
}

func ask(prompt survey.Prompt) (string, error) {
	var answer string
	err := survey.AskOne(prompt, &answer)
	if errors.Is(err, terminal.InterruptErr) {
		return "", ErrInterrupted
	}
	return answer, err
}

var _ Prompter = SurveyPrompter{}
