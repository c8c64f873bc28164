package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-imagechooser/pkg/images"
)

// ErrPickAborted is returned when the prompt is interrupted.
var ErrPickAborted = errors.New("imagechooser: selection aborted")

const noImageOption = "(no image)"

// ImagePicker asks the user for an image. A zero Image means "no image".
type ImagePicker interface {
	Pick(ctx context.Context, choices []images.Image) (images.Image, error)
}

type askFunc func(prompt survey.Prompt, response any, opts ...survey.AskOpt) error

type surveyPicker struct {
	ask askFunc
}

func newSurveyPicker() *surveyPicker {
	return &surveyPicker{ask: survey.AskOne}
}

func (p *surveyPicker) Pick(ctx context.Context, choices []images.Image) (images.Image, error) {
	if err := ctx.Err(); err != nil {
		return images.Image{}, err
	}
	if len(choices) == 0 {
		return images.Image{}, errors.New("imagechooser: catalog has no images")
	}

	options := make([]string, 0, len(choices)+1)
	options = append(options, noImageOption)
	for _, img := range choices {
		options = append(options, optionLabel(img))
	}

	var answer string
	prompt := &survey.Select{
		Message:  "Choose an image",
		Options:  options,
		PageSize: 10,
	}
	if err := p.ask(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return images.Image{}, ErrPickAborted
		}
		return images.Image{}, err
	}

	idx := indexOf(options, answer)
	if idx <= 0 {
		return images.Image{}, nil
	}
	return choices[idx-1], nil
}

func optionLabel(img images.Image) string {
	if img.Width > 0 && img.Height > 0 {
		return fmt.Sprintf("%s: %s (%dx%d)", img.ID, img.Title, img.Width, img.Height)
	}
	return fmt.Sprintf("%s: %s", img.ID, img.Title)
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
