package domain

import (
	"time"

	"github.com/google/uuid"
)

// PageSettings holds the appearance of a profile's public page.
type PageSettings struct {
	ProfileID          uuid.UUID `json:"id"`
	ThemePreset        string    `json:"theme_preset"`
	PrimaryColor       string    `json:"primary_color"`
	SecondaryColor     string    `json:"secondary_color"`
	BackgroundColor    string    `json:"background_color"`
	TextColor          string    `json:"text_color"`
	BackgroundType     string    `json:"background_type"`
	BackgroundGradient string    `json:"background_gradient,omitempty"`
	FontFamily         string    `json:"font_family"`
	ButtonStyle        string    `json:"button_style"`
	ButtonColor        string    `json:"button_color"`
	ButtonTextColor    string    `json:"button_text_color"`
	LayoutStyle        string    `json:"layout_style"`
	ShowPoweredBy      bool      `json:"show_powered_by"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type PageSettingsInput struct {
	ThemePreset        string `json:"theme_preset" label:"Theme preset" validate:"required,max=40"`
	PrimaryColor       string `json:"primary_color" label:"Primary color" validate:"required,hexcolor6"`
	SecondaryColor     string `json:"secondary_color" label:"Secondary color" validate:"required,hexcolor6"`
	BackgroundColor    string `json:"background_color" label:"Background color" validate:"required,hexcolor6"`
	TextColor          string `json:"text_color" label:"Text color" validate:"required,hexcolor6"`
	BackgroundType     string `json:"background_type" label:"Background type" validate:"required,oneof=solid gradient image"`
	BackgroundGradient string `json:"background_gradient" label:"Background gradient" validate:"omitempty,max=300,gradient"`
	FontFamily         string `json:"font_family" label:"Font" validate:"required,max=60"`
	ButtonStyle        string `json:"button_style" label:"Button style" validate:"required,oneof=rounded pill square outline"`
	ButtonColor        string `json:"button_color" label:"Button color" validate:"required,hexcolor6"`
	ButtonTextColor    string `json:"button_text_color" label:"Button text color" validate:"required,hexcolor6"`
	LayoutStyle        string `json:"layout_style" label:"Layout" validate:"required,oneof=standard compact magazine"`
	ShowPoweredBy      bool   `json:"show_powered_by"`
}

// ButtonClass maps a button style to the CSS class used by the public page.
func (s PageSettings) ButtonClass() string {
	switch s.ButtonStyle {
	case "pill":
		return "btn-pill"
	case "square":
		return "btn-square"
	case "outline":
		return "btn-outline"
	}
	return "btn-rounded"
}

// Background returns the CSS background declaration for the page body.
func (s PageSettings) Background() string {
	if s.BackgroundType == "gradient" && s.BackgroundGradient != "" {
		return "background: " + s.BackgroundGradient
	}
	return "background-color: " + s.BackgroundColor
}
