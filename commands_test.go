package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexushr/model"
	"nexushr/storage"
	"nexushr/tools"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	color.NoColor = true

	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &app{store: store, registry: tools.NewChain(tools.NewBuiltins())}
}

func TestListTools(t *testing.T) {
	a := newTestApp(t)
	var out bytes.Buffer

	require.NoError(t, a.listTools(context.Background(), nil, &out))

	text := out.String()
	assert.Contains(t, text, "4 tool(s)")
	for _, name := range []string{"start_onboarding_process", "request_pto_balance", "find_policy_document", "get_weather"} {
		assert.Contains(t, text, name)
	}
	assert.Contains(t, text, "- policy_name (required)")
}

func TestListToolsJSON(t *testing.T) {
	a := newTestApp(t)
	var out bytes.Buffer

	require.NoError(t, a.listTools(context.Background(), []string{"--json"}, &out))

	var envelopes []model.FunctionTool
	require.NoError(t, json.Unmarshal(out.Bytes(), &envelopes))
	require.Len(t, envelopes, 4)
	assert.Equal(t, "function", envelopes[0].Type)
	assert.Equal(t, "start_onboarding_process", envelopes[0].Function.Name)
	assert.Equal(t, "object", envelopes[2].Function.Parameters.Type)
	assert.Equal(t, []string{"policy_name"}, envelopes[2].Function.Parameters.Required)
}

func TestExportAndSearch(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	sess, err := a.store.CreateSession(ctx, "", "PTO question", "test-model")
	require.NoError(t, err)
	_, err = a.store.AppendMessage(ctx, sess.ID, model.Message{Role: model.RoleUser, Content: "How much vacation do I have left?"})
	require.NoError(t, err)
	_, err = a.store.AppendMessage(ctx, sess.ID, model.Message{Role: model.RoleAssistant, Content: "You have 80 hours of vacation."})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "session.json")
	require.NoError(t, a.export(ctx, []string{sess.ID, path}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var exported storage.Export
	require.NoError(t, json.Unmarshal(raw, &exported))
	assert.Equal(t, "PTO question", exported.Title)
	assert.Len(t, exported.Messages, 2)

	var out bytes.Buffer
	require.NoError(t, a.search(ctx, []string{"VACATION"}, &out))
	assert.Contains(t, out.String(), "PTO question")
	assert.Contains(t, out.String(), "80 hours")

	out.Reset()
	require.NoError(t, a.search(ctx, []string{"payroll"}, &out))
	assert.Contains(t, out.String(), `No messages match "payroll"`)
}

func TestCommandUsageErrors(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	assert.Error(t, a.export(ctx, nil))
	assert.Error(t, a.search(ctx, nil, &bytes.Buffer{}))
	assert.ErrorIs(t, a.export(ctx, []string{"missing"}), storage.ErrSessionNotFound)
}
