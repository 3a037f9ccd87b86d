package common

import (
	"fmt"
	"strings"
)

const (
	JewelryTypeRing     = "ring"
	JewelryTypeNecklace = "necklace"
	JewelryTypeBracelet = "bracelet"
	JewelryTypeEarrings = "earrings"
)

// JewelryParams holds manufacturing defaults per jewelry type. Density is in
// g/cm³, sizes in millimetres, weight in grams. A zero value means no limit.
type JewelryParams struct {
	Density      float64 `json:"density"`
	MinThickness float64 `json:"min_thickness,omitempty"`
	MinChainSize float64 `json:"min_chain_size,omitempty"`
	MinWidth     float64 `json:"min_width,omitempty"`
	MinPostSize  float64 `json:"min_post_size,omitempty"`
	MaxWeight    float64 `json:"max_weight,omitempty"`
}

var JewelryParamsMap = map[string]JewelryParams{
	JewelryTypeRing:     {Density: 19.3, MinThickness: 1.5},
	JewelryTypeNecklace: {Density: 10.5, MinChainSize: 0.8},
	JewelryTypeBracelet: {Density: 10.5, MinWidth: 2.0},
	JewelryTypeEarrings: {Density: 10.5, MinPostSize: 0.8},
}

// NormalizeJewelryType is the form stored and looked up; matching is
// case-insensitive.
func NormalizeJewelryType(jewelryType string) string {
	return strings.ToLower(strings.TrimSpace(jewelryType))
}

func IsValidJewelryType(jewelryType string) bool {
	_, ok := GetJewelryParams(jewelryType)
	return ok
}

func GetJewelryParams(jewelryType string) (JewelryParams, bool) {
	params, ok := JewelryParamsMap[NormalizeJewelryType(jewelryType)]
	return params, ok
}

// DesignMeasurements are the physical properties of a generated design.
type DesignMeasurements struct {
	Prompt    string  `json:"prompt"`
	Thickness float64 `json:"thickness"`
	Weight    float64 `json:"weight"`
}

type DesignConstraints struct {
	MinThickness float64 `json:"min_thickness"`
	MaxWeight    float64 `json:"max_weight"`
}

type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// IsRingDesign reports whether ring rules apply: the type says ring, or no
// type is given and the prompt mentions a ring.
func IsRingDesign(jewelryType string, prompt string) bool {
	if jewelryType = NormalizeJewelryType(jewelryType); jewelryType != "" {
		return jewelryType == JewelryTypeRing
	}
	return strings.Contains(strings.ToLower(prompt), JewelryTypeRing)
}

// ValidateDesign checks a design of jewelryType against manufacturing
// constraints. Only rings are checked for now.
func ValidateDesign(design DesignMeasurements, jewelryType string, constraints DesignConstraints) ValidationResult {
	errs := make([]string, 0)
	if IsRingDesign(jewelryType, design.Prompt) {
		if design.Thickness < constraints.MinThickness {
			errs = append(errs, fmt.Sprintf("Thickness below minimum %gmm", constraints.MinThickness))
		}
		if constraints.MaxWeight > 0 && design.Weight > constraints.MaxWeight {
			errs = append(errs, fmt.Sprintf("Weight exceeds maximum %gg", constraints.MaxWeight))
		}
	}
	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: make([]string, 0),
	}
}
