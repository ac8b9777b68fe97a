package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/autopage/pkg/config"
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
icon = "home"
top = "Home"

[[button.action]]
type = "Alt+Home"
`

const slackDef = `
[[match]]
name = "(?i)slack"

[[button]]
center = "Mute"
`

func newEngine(t *testing.T, client controller.Client) *Engine {
	t.Helper()
	testutil.Isolate(t)
	cfg := config.Default()
	cfg.Icons.DataRoot = "/data"
	return New(client, cfg)
}

func pageJSON(t *testing.T, svc *testutil.FakeService, name string) map[string]any {
	t.Helper()
	body, ok := svc.PageJSON(name)
	require.True(t, ok, "page %s not pushed", name)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	return doc
}

func TestRunSourceFile(t *testing.T) {
	svc := testutil.NewFakeService("S1", "S2").WithIcons("material", "Home")
	e := newEngine(t, svc)
	path := testutil.WriteDefinition(t, t.TempDir(), "firefox.ap.toml", firefoxDef)

	res, err := e.RunSource(context.Background(), path, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, "firefox", res.Page)
	assert.True(t, res.Pushed)

	doc := pageJSON(t, svc, "firefox")
	auto := doc["settings"].(map[string]any)["auto-change"].(map[string]any)
	assert.Equal(t, []any{"S1", "S2"}, auto["decks"])
	assert.Equal(t, "firefox", auto["wm-class"])

	state := doc["keys"].(map[string]any)["0x0"].(map[string]any)["states"].(map[string]any)["0"].(map[string]any)
	media := state["media"].(map[string]any)
	assert.Equal(t, "/data/icons/material/icons/Home.png", media["path"])
}

func TestRunSourceDryRun(t *testing.T) {
	svc := testutil.NewFakeService()
	e := newEngine(t, svc)
	path := testutil.WriteDefinition(t, t.TempDir(), "slack.toml", slackDef)

	var out bytes.Buffer
	res, err := e.RunSource(context.Background(), path, RunOptions{DryRun: true, Out: &out})
	require.NoError(t, err)
	assert.False(t, res.Pushed)
	assert.Empty(t, svc.CallsTo("AddPage"))
	assert.Contains(t, out.String(), `"title": "(?i)slack"`)

	out.Reset()
	_, err = e.RunSource(context.Background(), path, RunOptions{DryRun: true, Out: &out, Format: FormatYAML})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "title:")
	assert.Contains(t, out.String(), "center:")

	_, err = e.RunSource(context.Background(), path, RunOptions{DryRun: true, Out: &out, Format: "xml"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRunSourceWithoutClient(t *testing.T) {
	e := newEngine(t, nil)
	path := testutil.WriteDefinition(t, t.TempDir(), "firefox.ap.toml", firefoxDef)

	res, err := e.RunSource(context.Background(), path, RunOptions{DryRun: true})
	require.NoError(t, err)
	assert.Nil(t, res.Document.Settings.AutoChange.Decks)

	state := res.Document.Keys["0x0"].States["0"]
	assert.Nil(t, state.Media, "icon pattern must not be emitted as a media path")
	assert.Equal(t, "Home", state.Labels["top"].Text)
}

func TestRunSourceRepoDir(t *testing.T) {
	svc := testutil.NewFakeService()
	e := newEngine(t, svc)
	dir := testutil.WriteRepo(t, t.TempDir(), "slack", slackDef)

	res, err := e.RunSource(context.Background(), "file://"+dir, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, "slack", res.Page)
	_, ok := svc.PageJSON("slack")
	assert.True(t, ok)
}

func TestRunSourceHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recipes/slack.ap.toml" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, slackDef)
	}))
	defer srv.Close()

	svc := testutil.NewFakeService()
	e := newEngine(t, svc)

	res, err := e.RunSource(context.Background(), srv.URL+"/recipes/slack.ap.toml", RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, "slack", res.Page)

	_, err = e.RunSource(context.Background(), srv.URL+"/missing.toml", RunOptions{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestRunSourceErrorsPropagate(t *testing.T) {
	e := newEngine(t, testutil.NewFakeService())

	_, err := e.RunSource(context.Background(), filepath.Join(t.TempDir(), "nope.toml"), RunOptions{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	bad := testutil.WriteDefinition(t, t.TempDir(), "bad.toml", "[[button]\n")
	_, err = e.RunSource(context.Background(), bad, RunOptions{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
}

func TestPushForce(t *testing.T) {
	svc := testutil.NewFakeService()
	e := newEngine(t, svc)
	ctx := context.Background()

	require.NoError(t, e.Push(ctx, "p", []byte(`{"v":1}`), false))

	err := e.Push(ctx, "p", []byte(`{"v":2}`), false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPageExists))

	require.NoError(t, e.Push(ctx, "p", []byte(`{"v":2}`), true))
	body, _ := svc.PageJSON("p")
	assert.Equal(t, `{"v":2}`, body)
	assert.Len(t, svc.CallsTo("RemovePage"), 1)
}

func TestPushTransportErrorPropagates(t *testing.T) {
	m := &testutil.MockClient{
		AddPageFunc: func(ctx context.Context, name, pageJSON string) error {
			return errors.New(errors.ErrTransport, "service unknown")
		},
	}
	e := newEngine(t, m)

	err := e.Push(context.Background(), "p", []byte("{}"), true)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTransport))
	assert.Empty(t, m.CallsTo("RemovePage"))
}

func TestBuildPageDegradesOnLookupFailures(t *testing.T) {
	m := &testutil.MockClient{
		ControllersFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New(errors.ErrTransport, "down")
		},
		IconPacksFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New(errors.ErrTransport, "down")
		},
	}
	e := newEngine(t, m)
	path := testutil.WriteDefinition(t, t.TempDir(), "firefox.ap.toml", firefoxDef)

	_, def, err := e.LoadSource(context.Background(), path)
	require.NoError(t, err)

	doc, err := e.BuildPage(context.Background(), "firefox", def)
	require.NoError(t, err)
	assert.Nil(t, doc.Settings.AutoChange.Decks)
	assert.Nil(t, doc.Keys["0x0"].States["0"].Media)
}

func TestRunBatch(t *testing.T) {
	svc := testutil.NewFakeService("S1")
	e := newEngine(t, svc)

	base := t.TempDir()
	testutil.WriteRepo(t, base, "firefox", firefoxDef)
	testutil.WriteRepo(t, base, "broken", "[[button]\n")
	testutil.WriteRepo(t, base, "slack", slackDef)

	batch, err := e.RunBatch(context.Background(), base, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Succeeded())
	require.Contains(t, batch.Failed, "broken")
	assert.True(t, errors.IsErrorCode(batch.Failed["broken"], errors.ErrParse))

	pages, err := svc.Pages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"firefox", "slack"}, pages)
}
