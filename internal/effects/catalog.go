// Package effects holds the fixed catalog of single-filter video operations.
package effects

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"vcut/internal/services"
)

// Categories group operations for display.
const (
	CategoryFlip   = "flip"
	CategoryRotate = "rotation"
	CategoryScale  = "scaling"
	CategoryCrop   = "cropping"
	CategoryPad    = "padding"
	CategoryOther  = "other"
)

// Operation maps a user-facing name to an ffmpeg filter expression. Templates
// may contain {name} placeholders which must be supplied as parameters.
type Operation struct {
	Name        string
	Category    string
	Description string
	Template    string
}

var catalog = []Operation{
	{Name: "hflip", Category: CategoryFlip, Description: "Horizontal flip", Template: "hflip"},
	{Name: "vflip", Category: CategoryFlip, Description: "Vertical flip", Template: "vflip"},

	{Name: "180rotate", Category: CategoryRotate, Description: "Rotate by 180 degrees", Template: "rotate=180*PI/180"},
	{Name: "90clockwise", Category: CategoryRotate, Description: "Rotate 90 degrees clockwise", Template: "rotate=90*PI/180"},
	{Name: "90counterclk", Category: CategoryRotate, Description: "Rotate 90 degrees counter-clockwise", Template: "rotate=-90*PI/180"},

	{Name: "scalehd", Category: CategoryScale, Description: "Scale to 1080p keeping aspect ratio", Template: "scale=-1:1080"},
	{Name: "scalesd", Category: CategoryScale, Description: "Scale to 480p keeping aspect ratio", Template: "scale=-1:480"},
	{Name: "scalecustom", Category: CategoryScale, Description: "Scale to a custom size", Template: "scale={width}:{height}"},

	{Name: "crop16x9", Category: CategoryCrop, Description: "Crop to 16:9", Template: "crop=iw*16/9:ih*(16/9)*(iw/iw)"},
	{Name: "crop4x3", Category: CategoryCrop, Description: "Crop to 4:3", Template: "crop=iw*4/3:ih*(4/3)*(iw/iw)"},
	{Name: "cropcustom", Category: CategoryCrop, Description: "Crop a custom window", Template: "crop={width}:{height}:{x}:{y}"},

	{Name: "pad16x9", Category: CategoryPad, Description: "Pad to 16:9 with black bars", Template: "pad=(iw*16/9):ih:(ow-iw)/2:(oh-ih)/2:color=black"},
	{Name: "pad4x3", Category: CategoryPad, Description: "Pad to 4:3 with black bars", Template: "pad=(iw*4/3):ih:(ow-iw)/2:(oh-ih)/2:color=black"},
	{Name: "padcustom", Category: CategoryPad, Description: "Pad to a custom size and color", Template: "pad={width}:{height}:{x}:{y}:color={color}"},

	{Name: "grayscale", Category: CategoryOther, Description: "Convert to grayscale", Template: "hue=s=0"},
	{Name: "invert", Category: CategoryOther, Description: "Invert colors", Template: "negate"},
	{Name: "blur", Category: CategoryOther, Description: "Box blur", Template: "boxblur=2:2"},
}

var placeholderPattern = regexp.MustCompile(`\{([a-z]+)\}`)

// Characters that would escape the single filter expression.
const forbiddenParamChars = ":,;[]'\"\\\n"

// All returns the catalog in display order.
func All() []Operation {
	return slices.Clone(catalog)
}

// Names returns the supported operation names in display order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, op := range catalog {
		names = append(names, op.Name)
	}
	return names
}

// Lookup returns the named operation. Unknown names fail with
// services.ErrUnsupportedOperation.
func Lookup(name string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, op := range catalog {
		if op.Name == key {
			return op, nil
		}
	}
	return Operation{}, fmt.Errorf("%w: %q (supported: %s)", services.ErrUnsupportedOperation, name, strings.Join(Names(), ", "))
}

// Params lists the placeholders the operation requires, in template order.
func (o Operation) Params() []string {
	matches := placeholderPattern.FindAllStringSubmatch(o.Template, -1)
	params := make([]string, 0, len(matches))
	for _, m := range matches {
		if !slices.Contains(params, m[1]) {
			params = append(params, m[1])
		}
	}
	return params
}

// Custom reports whether the operation needs parameters.
func (o Operation) Custom() bool {
	return len(o.Params()) > 0
}

// Filter renders the filter expression. Missing, unknown, or unsafe
// parameters fail with services.ErrInvalidInput.
func (o Operation) Filter(params map[string]string) (string, error) {
	required := o.Params()
	for key := range params {
		if !slices.Contains(required, key) {
			return "", fmt.Errorf("%w: operation %s does not take parameter %q", services.ErrInvalidInput, o.Name, key)
		}
	}
	replacements := make([]string, 0, len(required)*2)
	for _, key := range required {
		value := strings.TrimSpace(params[key])
		if value == "" {
			return "", fmt.Errorf("%w: operation %s requires parameter %q", services.ErrInvalidInput, o.Name, key)
		}
		if strings.ContainsAny(value, forbiddenParamChars) {
			return "", fmt.Errorf("%w: parameter %s=%q contains filter separators", services.ErrInvalidInput, key, value)
		}
		replacements = append(replacements, "{"+key+"}", value)
	}
	if len(replacements) == 0 {
		return o.Template, nil
	}
	return strings.NewReplacer(replacements...).Replace(o.Template), nil
}

// ParseParams converts key=value pairs into a parameter map.
func ParseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: parameter %q must be key=value", services.ErrInvalidInput, pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}
