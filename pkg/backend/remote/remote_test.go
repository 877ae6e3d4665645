package remote

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/dom"
)

func TestRecordsOperations(t *testing.T) {
	inner := dom.New()
	b := New(inner)
	root := inner.Fragment()
	rootID := b.Adopt(root)

	span := b.Element("span")
	text := b.Text("5")
	b.Insert(span, text, nil)
	b.Attr(span, "class", "count")
	b.Insert(root, span, nil)
	b.Prop(text, backend.PropTextContent, 6)

	assert.Equal(t, `<span class="count">6</span>`, inner.String(root))
	assert.Equal(t, root, b.Parent(span))
	assert.True(t, b.IsNode(span))

	ops := b.Drain()
	require.Len(t, ops, 6)

	spanID, textID := b.NodeID(span), b.NodeID(text)
	assert.Equal(t, Op{Seq: 1, Kind: OpElement, Node: spanID, Name: "span"}, ops[0])
	assert.Equal(t, Op{Seq: 3, Kind: OpInsert, Node: textID, Parent: spanID}, ops[2])
	assert.Equal(t, Op{Seq: 5, Kind: OpInsert, Node: spanID, Parent: rootID}, ops[4])
	assert.Equal(t, Op{Seq: 6, Kind: OpProp, Node: textID, Name: backend.PropTextContent, Value: 6}, ops[5])
	assert.Zero(t, b.Pending())
}

func TestDestroyForgetsNode(t *testing.T) {
	b := New(dom.New())
	n := b.Element("p")
	require.NotZero(t, b.NodeID(n))

	b.Destroy(n)
	assert.Zero(t, b.NodeID(n))
	ops := b.Drain()
	assert.Equal(t, OpDestroy, ops[len(ops)-1].Kind)
}

func TestFlushRecyclesBuffer(t *testing.T) {
	b := New(dom.New())
	before := opBuffers.Stats()

	b.Element("div")
	var got int
	n := b.Flush(SinkFunc(func(ops []Op) { got = len(ops) }))

	assert.Equal(t, 1, n)
	assert.Equal(t, 1, got)
	after := opBuffers.Stats()
	assert.Equal(t, before.Released+1, after.Released)
	assert.Zero(t, b.Flush(nil))
}

func TestWireValue(t *testing.T) {
	assert.Equal(t, 3, wireValue(3))
	assert.Equal(t, "[1 2]", wireValue([]int{1, 2}))
	assert.Nil(t, wireValue(nil))
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(WithSnapshot(func() Message {
		return Message{Type: MessageSnapshot, HTML: "<p>0</p>"}
	}))
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first Message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, MessageSnapshot, first.Type)
	assert.Equal(t, "<p>0</p>", first.HTML)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish([]Op{{Seq: 1, Kind: OpText, Node: 1, Value: "1"}})

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageOps, msg.Type)
	require.Len(t, msg.Ops, 1)
	assert.Equal(t, OpText, msg.Ops[0].Kind)
	assert.Equal(t, "1", msg.Ops[0].Value)
}

func TestDestroyForgetsSubtree(t *testing.T) {
	b := New(dom.New())
	root := b.Fragment()
	li := b.Element("li")
	input := b.Element("input")
	b.Prop(input, "value", "x")
	b.Insert(li, input, nil)
	b.Insert(root, li, nil)
	require.NotZero(t, b.NodeID(input))

	b.Destroy(li)
	assert.Zero(t, b.NodeID(li))
	assert.Zero(t, b.NodeID(input))
	assert.Equal(t, 1, b.Known(), "only the root keeps its ID")

	inner := b.Inner().(*dom.Backend)
	_, ok := inner.PropValue(input, "value")
	assert.False(t, ok)
}

func TestClearChildrenForgetsSubtree(t *testing.T) {
	b := New(dom.New())
	root := b.Element("ul")
	for i := 0; i < 10; i++ {
		li := b.Element("li")
		b.Insert(li, b.Text("row"), nil)
		b.Insert(root, li, nil)
	}
	require.Equal(t, 21, b.Known())

	b.ClearChildren(root)
	assert.Equal(t, 1, b.Known())
	assert.NotZero(t, b.NodeID(root))
}
