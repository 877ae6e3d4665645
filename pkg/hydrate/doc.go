// Package hydrate matches server-rendered nodes against a fresh
// construction of the same component tree.
//
// A Cursor walks the existing children of one parent. Each construction
// step claims the next existing node instead of creating one. When the
// existing node does not have the expected shape, the cursor falls back to
// creating a fresh node in its place, records the mismatch in a Report and
// logs it. The result is always the tree the components describe.
//
// Text is matched leniently: serialized adjacent text nodes come back from
// the parser as one node, so an existing text that starts with the expected
// text is split rather than reported.
package hydrate
