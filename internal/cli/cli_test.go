package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JonMunkholm/dashboard/internal/cache"
	"github.com/JonMunkholm/dashboard/internal/core"
	"github.com/JonMunkholm/dashboard/internal/core/coretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoiceID = "8d2c4a1f-5b6e-4c7d-9e0f-1a2b3c4d5e6f"

type harness struct {
	store    *coretest.Store
	pages    *coretest.Revalidator
	readOnly error
	closed   bool
}

func newHarness() *harness {
	store := coretest.NewStore(core.Customer{ID: "c1", Name: "Lee Robinson"})
	store.Put(core.Invoice{
		ID:         invoiceID,
		CustomerID: "c1",
		Amount:     20348,
		Status:     core.StatusPending,
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	return &harness{store: store, pages: &coretest.Revalidator{}}
}

func (h *harness) connect(context.Context) (*Backend, error) {
	return &Backend{
		Store: h.store,
		Actions: core.NewActions(h.store, h.pages,
			core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		),
		Close:    func() { h.closed = true },
		ReadOnly: h.readOnly,
	}, nil
}

func (h *harness) run(args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand(h.connect)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCreate(t *testing.T) {
	h := newHarness()

	out, err := h.run("create", "--customer", "c1", "--amount", "45.5", "--status", "pending")
	require.NoError(t, err)

	assert.Contains(t, out, "Invoice created.")
	assert.Equal(t, 2, h.store.Len())
	assert.Equal(t, []string{core.InvoicesPath}, h.pages.Paths())
	assert.True(t, h.closed)
}

func TestCreate_ValidationFailure(t *testing.T) {
	h := newHarness()

	out, err := h.run("create", "--amount", "10", "--status", "paid")
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, errors.Is(err, core.ErrValidation))
	assert.Contains(t, out, core.MsgCreateInvalid)
	assert.Contains(t, out, "customerId: Please select a customer")
	assert.Equal(t, 0, h.store.Inserts)
}

func TestCreate_JSONValidationFailure(t *testing.T) {
	h := newHarness()

	out, err := h.run("--format", "json", "create", "--customer", "c1", "--amount", "0", "--status", "late")
	require.Error(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, core.FieldErrors{
		core.FieldAmount: core.MessageFor(core.FieldAmount),
		core.FieldStatus: core.MessageFor(core.FieldStatus),
	}, resp.Errors)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VAL001", resp.Error.Code)
}

func TestUpdate(t *testing.T) {
	h := newHarness()

	_, err := h.run("update", invoiceID, "--customer", "c1", "--amount", "1.005", "--status", "paid")
	require.NoError(t, err)

	inv, ok := h.store.Invoice(invoiceID)
	require.True(t, ok)
	assert.EqualValues(t, 101, inv.Amount)
	assert.Equal(t, core.StatusPaid, inv.Status)
}

func TestUpdate_RequiresID(t *testing.T) {
	_, err := newHarness().run("update", "--customer", "c1")
	assert.Error(t, err)
}

func TestDelete_TwiceIsNoop(t *testing.T) {
	h := newHarness()

	_, err := h.run("delete", invoiceID)
	require.NoError(t, err)
	_, err = h.run("delete", invoiceID)
	require.NoError(t, err)

	assert.Equal(t, 0, h.store.Len())
	assert.Len(t, h.pages.Paths(), 2)
}

func TestDelete_WriteFailure(t *testing.T) {
	h := newHarness()
	h.store.DeleteErr = errors.New("connection refused")

	out, err := h.run("delete", invoiceID)
	require.Error(t, err)

	assert.True(t, errors.Is(err, core.ErrWrite))
	assert.Contains(t, out, core.MsgDeleteFailed)
	assert.Empty(t, h.pages.Paths())
}

func TestWrites_RefusedWithoutSharedCache(t *testing.T) {
	h := newHarness()
	h.readOnly = fmt.Errorf("%w: CACHE_MEMORY is private to one process", cache.ErrNotShared)

	for _, args := range [][]string{
		{"create", "--customer", "c1", "--amount", "45.5", "--status", "pending"},
		{"update", invoiceID, "--customer", "c1", "--amount", "1", "--status", "paid"},
		{"delete", invoiceID},
	} {
		_, err := h.run(args...)
		require.Error(t, err, args[0])
		assert.Equal(t, ExitCommandError, GetExitCode(err), args[0])
		assert.ErrorIs(t, err, cache.ErrNotShared, args[0])
	}

	assert.Equal(t, 1, h.store.Len())
	assert.Zero(t, h.store.Inserts)
	assert.Zero(t, h.store.Updates)
	assert.Empty(t, h.pages.Paths())

	out, err := h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lee Robinson")
}

func TestList(t *testing.T) {
	h := newHarness()

	out, err := h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lee Robinson")
	assert.Contains(t, out, "$203.48")
	assert.Contains(t, out, "2024-03-01")

	out, err = h.run("--format", "json", "list")
	require.NoError(t, err)
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestInvalidFormat(t *testing.T) {
	_, err := newHarness().run("--format", "yaml", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConnectFailure(t *testing.T) {
	cmd := NewRootCommand(func(context.Context) (*Backend, error) {
		return nil, errors.New("POSTGRES_URL is required")
	})
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
