// Package storetest provides a check.v1 suite that every Store backend runs.
package storetest

import (
	"strconv"
	"strings"

	gc "gopkg.in/check.v1"

	"github.com/aweris/locker/internal/store"
)

// SuiteBase holds the contract tests. Backends embed it and call SetStore
// from SetUpTest; durable backends also set Reopen.
type SuiteBase struct {
	s store.Store

	// Reopen closes the current store and returns a fresh handle on the
	// same underlying data. Nil for non-durable backends.
	Reopen func(c *gc.C) store.Store
}

// SetStore configures the suite to run against s.
func (b *SuiteBase) SetStore(s store.Store) {
	b.s = s
}

func (b *SuiteBase) Store() store.Store {
	return b.s
}

func (b *SuiteBase) TestGetAbsent(c *gc.C) {
	v, ok, err := b.s.Get("incognitobox_games")
	c.Assert(err, gc.IsNil)
	c.Assert(ok, gc.Equals, false)
	c.Assert(v, gc.Equals, "")
}

func (b *SuiteBase) TestSetGet(c *gc.C) {
	c.Assert(b.s.Set("incognitobox_authenticated", "true"), gc.IsNil)

	v, ok, err := b.s.Get("incognitobox_authenticated")
	c.Assert(err, gc.IsNil)
	c.Assert(ok, gc.Equals, true)
	c.Assert(v, gc.Equals, "true")
}

func (b *SuiteBase) TestSetEmptyValue(c *gc.C) {
	c.Assert(b.s.Set("empty", ""), gc.IsNil)

	v, ok, err := b.s.Get("empty")
	c.Assert(err, gc.IsNil)
	c.Assert(ok, gc.Equals, true)
	c.Assert(v, gc.Equals, "")
}

func (b *SuiteBase) TestOverwrite(c *gc.C) {
	c.Assert(b.s.Set("k", "first"), gc.IsNil)
	c.Assert(b.s.Set("k", "second"), gc.IsNil)

	v, _, err := b.s.Get("k")
	c.Assert(err, gc.IsNil)
	c.Assert(v, gc.Equals, "second")
}

func (b *SuiteBase) TestLargeValue(c *gc.C) {
	large := "[" + strings.Repeat(`{"id":"1","title":"Chess","url":"https://x","category":"Board"},`, 200) + "]"
	c.Assert(b.s.Set("large", large), gc.IsNil)

	v, ok, err := b.s.Get("large")
	c.Assert(err, gc.IsNil)
	c.Assert(ok, gc.Equals, true)
	c.Assert(v, gc.Equals, large)
}

func (b *SuiteBase) TestRemove(c *gc.C) {
	c.Assert(b.s.Set("k", "v"), gc.IsNil)
	c.Assert(b.s.Remove("k"), gc.IsNil)

	_, ok, err := b.s.Get("k")
	c.Assert(err, gc.IsNil)
	c.Assert(ok, gc.Equals, false)
}

func (b *SuiteBase) TestRemoveAbsent(c *gc.C) {
	c.Assert(b.s.Remove("missing"), gc.IsNil)
}

func (b *SuiteBase) TestKeysAreIndependent(c *gc.C) {
	c.Assert(b.s.Set("incognitobox_games", "[1]"), gc.IsNil)
	c.Assert(b.s.Set("incognitobox_apps", "[2]"), gc.IsNil)
	c.Assert(b.s.Remove("incognitobox_games"), gc.IsNil)

	v, ok, err := b.s.Get("incognitobox_apps")
	c.Assert(err, gc.IsNil)
	c.Assert(ok, gc.Equals, true)
	c.Assert(v, gc.Equals, "[2]")
}

func (b *SuiteBase) TestPersistsAcrossReopen(c *gc.C) {
	if b.Reopen == nil {
		c.Skip("backend is not durable")
	}
	c.Assert(b.s.Set("incognitobox_games", `[{"id":"1"}]`), gc.IsNil)
	c.Assert(b.s.Set("gone", "x"), gc.IsNil)
	c.Assert(b.s.Remove("gone"), gc.IsNil)

	b.s = b.Reopen(c)

	v, ok, err := b.s.Get("incognitobox_games")
	c.Assert(err, gc.IsNil)
	c.Assert(ok, gc.Equals, true)
	c.Assert(v, gc.Equals, `[{"id":"1"}]`)

	_, ok, err = b.s.Get("gone")
	c.Assert(err, gc.IsNil)
	c.Assert(ok, gc.Equals, false)
}

func (b *SuiteBase) TestSimilarKeysAreDistinct(c *gc.C) {
	keys := []string{"a/b", "a_b", "a:b", `a\b`, "a%2Fb", ".", "..", "_"}
	for i, key := range keys {
		c.Assert(b.s.Set(key, strconv.Itoa(i)), gc.IsNil)
	}
	for i, key := range keys {
		v, ok, err := b.s.Get(key)
		c.Assert(err, gc.IsNil)
		c.Assert(ok, gc.Equals, true, gc.Commentf("key %q", key))
		c.Assert(v, gc.Equals, strconv.Itoa(i), gc.Commentf("key %q", key))
	}
}
