package autopage

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/autopage/pkg/controller"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firefoxDef = `
[[match]]
class = "firefox"

[[button]]
top = "Home"

[[button.action]]
type = "Alt+Home"
`

// execute runs the root command against client and returns stdout.
func execute(t *testing.T, client controller.Client, args ...string) (string, error) {
	t.Helper()
	testutil.Isolate(t)

	old := connect
	t.Cleanup(func() { connect = old })
	connect = func(opts controller.Options) (controller.Client, error) {
		if client == nil {
			return nil, errors.New(errors.ErrTransport, "no session bus")
		}
		return client, nil
	}

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootWithoutSourceShowsHelp(t *testing.T) {
	out, err := execute(t, testutil.NewFakeService())
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Contains(t, out, "USAGE:")
	assert.Contains(t, out, "SERVICE:")
}

func TestRootPushesSource(t *testing.T) {
	svc := testutil.NewFakeService("S1")
	path := testutil.WriteDefinition(t, t.TempDir(), "firefox.ap.toml", firefoxDef)

	out, err := execute(t, svc, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Pushed page: firefox")

	body, ok := svc.PageJSON("firefox")
	require.True(t, ok)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Contains(t, doc["keys"], "0x0")

	_, err = execute(t, svc, path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPageExists))

	_, err = execute(t, svc, "-f", path)
	require.NoError(t, err)
	assert.Len(t, svc.CallsTo("RemovePage"), 1)
}

func TestRootDryRunWithoutService(t *testing.T) {
	path := testutil.WriteDefinition(t, t.TempDir(), "firefox.ap.toml", firefoxDef)

	out, err := execute(t, nil, "--dry-run", "--cols", "2", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"wm-class": "firefox"`)

	out, err = execute(t, nil, "--dry-run", "--format", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wm-class: firefox")
}

func TestRootWithoutServiceFails(t *testing.T) {
	path := testutil.WriteDefinition(t, t.TempDir(), "firefox.ap.toml", firefoxDef)

	_, err := execute(t, nil, path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTransport))
}

func TestRootRejectsInvalidGrid(t *testing.T) {
	path := testutil.WriteDefinition(t, t.TempDir(), "firefox.ap.toml", firefoxDef)

	_, err := execute(t, nil, "--dry-run", "--rows", "0", path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestServiceCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"controllers", []string{"controllers"}, "S1\nS2\n"},
		{"no pages", []string{"pages"}, "No pages found.\n"},
		{"no icon packs", []string{"icon-packs"}, "No icon packs found.\n"},
		{"no icons", []string{"icons", "material"}, "No icons found in pack: material\n"},
		{"add page", []string{"add-page", "p1", `{"keys":{}}`}, "Added page: p1\n"},
		{"remove page", []string{"remove-page", "p1"}, "Removed page: p1\n"},
		{"set active", []string{"set-active-page", "S1", "p1"}, "Set active page: p1\n"},
		{"notify", []string{"notify-foreground", "Inbox", "thunderbird"}, "Notified foreground window: name=\"Inbox\" class=\"thunderbird\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, testutil.NewFakeService("S1", "S2"), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestServiceCommandsListContents(t *testing.T) {
	svc := testutil.NewFakeService().WithIcons("material", "home", "mute")
	require.NoError(t, svc.AddPage(context.Background(), "b", ""))
	require.NoError(t, svc.AddPage(context.Background(), "a", ""))

	out, err := execute(t, svc, "pages")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)

	out, err = execute(t, svc, "icons", "material")
	require.NoError(t, err)
	assert.Equal(t, "home\nmute\n", out)
}

func TestGetProperty(t *testing.T) {
	svc := testutil.NewFakeService("S1")
	require.NoError(t, svc.AddPage(context.Background(), "p1", ""))

	out, err := execute(t, svc, "get-property", "Pages")
	require.NoError(t, err)
	assert.Equal(t, "Pages = [p1]\n", out)

	_, err = execute(t, svc, "get-property", "Nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownProperty))
}

func TestListenPrintsChanges(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SubscribeFunc = testutil.ReplayChanges(
		controller.PropertyChange{
			Path:      controller.DefaultObject,
			Interface: controller.DefaultInterface,
			Property:  "Pages",
			Value:     []string{"a"},
		},
		controller.PropertyChange{
			Path:      controller.DefaultObject + "/controllers/S1",
			Interface: controller.DefaultControllerInterface,
			Property:  "ActivePageName",
			Value:     "a",
		},
	)

	out, err := execute(t, svc, "listen")
	require.NoError(t, err)
	assert.Equal(t,
		"[root] com.core447.StreamController Pages = [a]\n"+
			"[/com/core447/StreamController/controllers/S1] com.core447.StreamController.Controller ActivePageName = a\n",
		out)
}

func TestMatchAndSync(t *testing.T) {
	base := t.TempDir()
	testutil.WriteRepo(t, base, "firefox", firefoxDef)
	testutil.WriteRepo(t, base, "slack", "[[match]]\nclass = \"slack\"\n")

	out, err := execute(t, nil, "match", "--base", base, "Mozilla Firefox", "firefox")
	require.NoError(t, err)
	assert.Contains(t, out, "firefox")
	assert.NotContains(t, out, "slack")

	out, err = execute(t, nil, "match", "--base", base, "x", "xterm")
	require.NoError(t, err)
	assert.Contains(t, out, "No page matches window")

	svc := testutil.NewFakeService("S1")
	out, err = execute(t, svc, "sync", base)
	require.NoError(t, err)
	assert.Contains(t, out, "Pushed page: firefox")
	assert.Contains(t, out, "Pushed page: slack")

	testutil.WriteRepo(t, base, "broken", "[[button]\n")
	_, err = execute(t, svc, "sync", "-f", base)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoInvalid))
	assert.Equal(t, 1, errors.GetErrorDetails(err)["failed"])
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "autopage version dev")
}
