// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package overview

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monadic/v2v-overview/internal/i18n"
	"github.com/monadic/v2v-overview/pkg/inventory"
	"github.com/monadic/v2v-overview/pkg/wizard"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// pump feeds n results from the controller into the model.
func pump(t *testing.T, m Model, n int) Model {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case r := <-m.Controller().Results():
			m, _ = update(t, m, r)
		case <-time.After(wait):
			t.Fatalf("timed out waiting for result %d of %d", i+1, n)
		}
	}
	return m
}

func startModel(t *testing.T, f inventory.Fetcher) Model {
	t.Helper()
	c, _ := newTestController(t, f)
	m := NewModel(context.Background(), c, WithSource("fixture"))
	m.Init()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestModelDashboardWithoutMappings(t *testing.T) {
	m := startModel(t, newFixture(t))
	m = pump(t, m, len(inventory.AllKinds))

	view := m.View()
	assert.Contains(t, view, "MIGRATION OVERVIEW")
	assert.Contains(t, view, "fixture")
	assert.NotContains(t, view, "MIGRATIONS\n")
	assert.Contains(t, view, "No infrastructure mappings yet")
	assert.Contains(t, view, "INVENTORY")
	assert.Contains(t, view, "Cloud Volume Types")
	assert.NotContains(t, view, "new plan")
}

func TestModelSectionOrder(t *testing.T) {
	f := newFixture(t)
	f.Set(inventory.Mappings, []inventory.Record{{ID: "1", Name: "vmware-to-osp", Attributes: map[string]string{"items": "4"}}})
	m := startModel(t, f)
	m = pump(t, m, len(inventory.AllKinds))

	view := m.View()
	migrations := strings.Index(view, "MIGRATIONS\n")
	mappings := strings.Index(view, "INFRASTRUCTURE MAPPINGS")
	inv := strings.Index(view, "INVENTORY")
	require.True(t, migrations >= 0, view)
	assert.Less(t, migrations, mappings)
	assert.Less(t, mappings, inv)

	assert.Contains(t, view, "vmware-to-osp")
	assert.Contains(t, view, "4 items")
	assert.Contains(t, view, "used by 1 plan")
	assert.Contains(t, view, "plan-a")
	assert.Contains(t, view, "new plan")
}

func TestModelRejectedCollectionShowsReason(t *testing.T) {
	f := newFixture(t)
	f.Fail(inventory.CloudTenants, inventory.ErrUnsupported)
	m := startModel(t, f)
	m = pump(t, m, len(inventory.AllKinds))

	assert.Contains(t, m.View(), "✗ unsupported")
}

func TestModelPlanWizardGated(t *testing.T) {
	f := newFixture(t)
	m := startModel(t, f)
	m = pump(t, m, len(inventory.AllKinds))

	m, _ = update(t, m, keyRune('p'))
	assert.Empty(t, m.Wizards())
	assert.False(t, m.Controller().PlanWizardVisible())

	f.Set(inventory.Mappings, []inventory.Record{{ID: "1"}})
	m, _ = update(t, m, keyRune('r'))
	m = pump(t, m, len(inventory.AllKinds))

	m, _ = update(t, m, keyRune('p'))
	assert.Equal(t, []string{PlanWizard}, m.Wizards())
}

func TestModelBothWizardsOpen(t *testing.T) {
	f := newFixture(t)
	f.Set(inventory.Mappings, []inventory.Record{{ID: "1"}})
	m := startModel(t, f)
	m = pump(t, m, len(inventory.AllKinds))

	m, _ = update(t, m, keyRune('m'))
	m, _ = update(t, m, keyRune('p'))
	assert.Equal(t, []string{MappingWizard, PlanWizard}, m.Wizards())
	assert.True(t, m.Controller().MappingWizardVisible())
	assert.True(t, m.Controller().PlanWizardVisible())
	assert.Contains(t, m.View(), i18n.MsgPlanWizardTitle)
	assert.Contains(t, m.View(), "1 other wizard open")

	// Reopening gives focus without a second instance.
	m, _ = update(t, m, keyRune('m'))
	assert.Equal(t, []string{PlanWizard, MappingWizard}, m.Wizards())
	assert.Contains(t, m.View(), i18n.MsgMappingWizardTitle)
}

func TestModelWizardLoadsWhenDataSettles(t *testing.T) {
	release := make(chan struct{})
	f := newFixture(t)
	fetcher := inventory.FetchFunc(func(ctx context.Context, kind inventory.Kind) ([]inventory.Record, error) {
		if kind == inventory.Networks {
			<-release
		}
		return f.Fetch(ctx, kind)
	})
	m := startModel(t, fetcher)
	m = pump(t, m, len(inventory.AllKinds)-1)

	m, _ = update(t, m, keyRune('m'))
	assert.Contains(t, m.View(), "Loading Wizard...")

	// Navigation is ignored while loading.
	m, _ = update(t, m, keyRune('2'))
	close(release)
	m = pump(t, m, 1)

	view := m.View()
	assert.NotContains(t, view, "Loading Wizard...")
	assert.Contains(t, view, "[1 General]")
	assert.Contains(t, view, "5 Results")

	m, _ = update(t, m, keyRune('2'))
	assert.Contains(t, m.View(), "[2 Clusters]")
	assert.Contains(t, m.View(), "prod (vcenter)")
}

func TestModelEscClosesFocusedWizard(t *testing.T) {
	m := startModel(t, newFixture(t))
	m = pump(t, m, len(inventory.AllKinds))

	m, _ = update(t, m, keyRune('m'))
	require.Equal(t, []string{MappingWizard}, m.Wizards())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, wizard.CloseMsg{Name: MappingWizard}, msg)

	m, _ = update(t, m, msg)
	assert.Empty(t, m.Wizards())
	assert.False(t, m.Controller().MappingWizardVisible())
	assert.Contains(t, m.View(), "INVENTORY")
}

func TestModelQuitDeactivates(t *testing.T) {
	m := startModel(t, newFixture(t))
	m = pump(t, m, len(inventory.AllKinds))

	m, cmd := update(t, m, keyRune('q'))
	require.NotNil(t, cmd)
	assert.False(t, m.Controller().Active())
	assert.False(t, m.Controller().Scheduler().Running())
}

func TestModelHelpToggle(t *testing.T) {
	m := startModel(t, newFixture(t))
	m = pump(t, m, len(inventory.AllKinds))

	m, _ = update(t, m, keyRune('?'))
	assert.Contains(t, m.View(), "new mapping")
	assert.Contains(t, m.View(), "new plan")
}

func TestProgramDashboard(t *testing.T) {
	f := newFixture(t)
	f.Set(inventory.Mappings, []inventory.Record{{ID: "1", Name: "vmware-to-osp"}})
	c := NewController(f)
	m := NewModel(context.Background(), c)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("vmware-to-osp")) && bytes.Contains(out, []byte("plan-a"))
	}, teatest.WithDuration(wait), teatest.WithCheckInterval(tick))

	tm.Send(keyRune('m'))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte(i18n.MsgMappingWizardTitle))
	}, teatest.WithDuration(wait), teatest.WithCheckInterval(tick))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(wait))

	fm := final.(Model)
	assert.Empty(t, fm.Wizards())
	assert.False(t, fm.Controller().Active())
}
