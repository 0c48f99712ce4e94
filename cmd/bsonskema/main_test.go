package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testDefs = `
types:
  Item:
    fields:
      sku:   {type: string, required: true, unique: true}
      price: {type: decimal}
      qty:   {type: int32, optional: true, min: 1}
      tags:  {type: string, array: true, optional: true}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck_OK(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.yaml", testDefs)
	docs := writeFile(t, dir, "items.json", `{"sku": "A-1", "price": "9.99", "qty": 2}
{"sku": "B-2", "price": {"$numberDecimal": "1.5"}, "tags": ["x"]}
`)
	out, err := run(t, "check", "--schema", defs, "--type", "Item", docs)
	require.NoError(t, err)
	require.Contains(t, out, "2 documents ok")
}

func TestCheck_Encode(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.yaml", testDefs)
	docs := writeFile(t, dir, "items.yaml", "sku: A-1\nprice: 3\nqty: 1\n")
	out, err := run(t, "check", "-s", defs, "-t", "Item", "--encode", docs)
	require.NoError(t, err)
	require.Contains(t, out, `{"sku":"A-1","price":{"$numberDecimal":"3"},"qty":1}`)
}

func TestCheck_ReportsIssues(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.yaml", testDefs)
	docs := writeFile(t, dir, "items.json", `{"price": "1"}
{"sku": "C", "price": "1", "qty": 0}
{"sku": "D", "price": "abc"}
`)
	out, err := run(t, "check", "--schema", defs, "--type", "Item", docs)
	require.EqualError(t, err, "3 of 3 documents failed")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "#1: sku: required")
	require.Contains(t, lines[1], "#2: qty: validation")
	require.Contains(t, lines[2], "#3: price: no_branch")
}

func TestCheck_DuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.yaml", testDefs)
	docs := writeFile(t, dir, "items.json", `{"sku": "A", "sku": "B", "price": "1"}`)

	out, err := run(t, "check", "-s", defs, "-t", "Item", docs)
	require.NoError(t, err)
	require.Contains(t, out, "1 documents ok")

	_, err = run(t, "check", "-s", defs, "-t", "Item", "--duplicate-keys", "error", docs)
	require.ErrorContains(t, err, "duplicate_key at sku")

	_, err = run(t, "check", "-s", defs, "-t", "Item", "--duplicate-keys", "first", docs)
	require.ErrorContains(t, err, `unknown policy "first"`)
}

func TestCheck_UnknownType(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.yaml", testDefs)
	docs := writeFile(t, dir, "items.json", `{}`)
	_, err := run(t, "check", "--schema", defs, "--type", "Nope", docs)
	require.ErrorContains(t, err, `type "Nope" not found`)
}

func TestOptions(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.yaml", testDefs)
	out, err := run(t, "options", "--schema", defs, "--type", "Item")
	require.NoError(t, err)
	require.Equal(t, "sku required index(unique)\n", out)
}

func TestOptions_SharedTypeListedPerField(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.yaml", `
types:
  Order:
    fields:
      ship: {type: Address}
      bill: {type: Address, optional: true}
  Address:
    fields:
      street: {type: string, required: true, index: true}
`)
	out, err := run(t, "options", "--schema", defs, "--type", "Order")
	require.NoError(t, err)
	require.Equal(t, "bill.street required index\nship.street required index\n", out)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	docs := writeFile(t, dir, "doc.json", `{"a": [1, {"$numberLong": "2"}], "b": null}`)
	out, err := run(t, "inspect", docs)
	require.NoError(t, err)
	require.Contains(t, out, "  <root>: document\n")
	require.Contains(t, out, "  a.0: int32\n")
	require.Contains(t, out, "  a.1: int64\n")
	require.Contains(t, out, "  b: null\n")
}
