package hydrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
)

func TestDecoderFromFixtures(t *testing.T) {
	fx := loadFixture(t, "hydrate_settings.json")

	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			decoder := NewDecoder[notificationSettings](buildOptions(tc)...)

			result, err := decoder.Decode(Context{Path: tc.Path, Root: tc.Root}, tc.Input)

			if tc.ExpectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.ExpectErr)
				}
				if !strings.Contains(err.Error(), tc.ExpectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.ExpectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}

			if !reflect.DeepEqual(tc.Expect, result) {
				t.Fatalf("decoded value mismatch:\nwant: %#v\n got: %#v", tc.Expect, result)
			}
		})
	}
}

func TestDecoderRejectsNilPayload(t *testing.T) {
	_, err := NewDecoder[notificationSettings]().Decode(Context{Path: "a.b"}, nil)
	if !errors.Is(err, ErrNilPayload) {
		t.Fatalf("expected ErrNilPayload, got %v", err)
	}
}

func TestDecoderDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"quietHours": "01:00-02:00"}
	decoder := NewDecoder(WithPreHook[notificationSettings](quietHoursPreHook))

	if _, err := decoder.Decode(Context{Path: "p"}, input); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if input["quietHours"] != "01:00-02:00" {
		t.Fatalf("expected caller payload to be left untouched, got %v", input["quietHours"])
	}
}

func TestDecoderScalarPayload(t *testing.T) {
	got, err := NewDecoder[int]().Decode(Context{Path: "counter"}, 42.0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func buildOptions(tc fixtureCase) []DecoderOption[notificationSettings] {
	options := []DecoderOption[notificationSettings]{}

	for _, optName := range tc.Options {
		switch optName {
		case "reject_unknown":
			options = append(options, WithRejectUnknownMembers[notificationSettings]())
		case "case_insensitive":
			options = append(options, WithCaseInsensitiveNames[notificationSettings]())
		}
	}

	for _, hookName := range tc.PreHooks {
		switch hookName {
		case "quiet_hours_split":
			options = append(options, WithPreHook[notificationSettings](quietHoursPreHook))
		}
	}

	for _, hookName := range tc.PostHooks {
		switch hookName {
		case "ensure_tag":
			options = append(options, WithPostHook[notificationSettings](ensureTagPostHook))
		}
	}

	switch tc.CustomDecoder {
	case "snapshot_string":
		options = append(options, WithCustomDecoder[notificationSettings](snapshotStringDecoder))
	}

	return options
}

func quietHoursPreHook(_ Context, payload any) (any, error) {
	object, ok := payload.(map[string]any)
	if !ok {
		return payload, nil
	}
	value, ok := object["quietHours"].(string)
	if !ok || value == "" {
		return payload, nil
	}

	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid quiet hours payload %q", value)
	}

	object["quietHours"] = map[string]any{
		"start": strings.TrimSpace(parts[0]),
		"end":   strings.TrimSpace(parts[1]),
	}
	return object, nil
}

func ensureTagPostHook(ctx Context, settings *notificationSettings) error {
	if settings == nil {
		return errors.New("settings is nil")
	}
	if len(settings.Tags) > 0 {
		return nil
	}
	leaf := strings.TrimPrefix(ctx.Path, ctx.Root+".")
	settings.Tags = []string{fmt.Sprintf("%s:%s", ctx.Root, leaf)}
	return nil
}

func snapshotStringDecoder(ctx Context, payload any) (notificationSettings, error) {
	var zero notificationSettings
	object, _ := payload.(map[string]any)
	raw, ok := object["snapshot"].(string)
	if !ok || raw == "" {
		return zero, fmt.Errorf("missing snapshot string for path %q", ctx.Path)
	}
	var out notificationSettings
	if err := json.Unmarshal([]byte(raw), &out, json.RejectUnknownMembers(true)); err != nil {
		return zero, err
	}
	return out, nil
}

type fixture struct {
	Description string        `json:"description"`
	Cases       []fixtureCase `json:"cases"`
}

type fixtureCase struct {
	Name          string               `json:"name"`
	Path          string               `json:"path"`
	Root          string               `json:"root"`
	Input         map[string]any       `json:"input"`
	Expect        notificationSettings `json:"expect"`
	ExpectErr     string               `json:"expectErr"`
	PreHooks      []string             `json:"preHooks"`
	PostHooks     []string             `json:"postHooks"`
	Options       []string             `json:"options"`
	CustomDecoder string               `json:"customDecoder"`
}

type notificationSettings struct {
	Enabled    bool            `json:"enabled"`
	QuietHours quietHours      `json:"quietHours"`
	Channels   channelSettings `json:"channels"`
	Limits     limits          `json:"limits"`
	Tags       []string        `json:"tags"`
}

type quietHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type channelSettings struct {
	Email channel `json:"email"`
	Push  channel `json:"push"`
}

type channel struct {
	Enabled   bool   `json:"enabled"`
	Frequency string `json:"frequency"`
	Threshold int    `json:"threshold"`
}

type limits struct {
	Daily   int `json:"daily"`
	Monthly int `json:"monthly"`
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read hydrate fixture %q: %v", name, err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal hydrate fixture %q: %v", name, err)
	}
	return fx
}
