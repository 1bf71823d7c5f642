package chat_test

import (
	"encoding/json"

	"github.com/killallgit/slate/pkg/chat"
	"github.com/killallgit/slate/pkg/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type slotUpdate struct {
	index int
	item  events.ContentItem
}

// recordingRenderer captures what the reducer emits.
type recordingRenderer struct {
	statuses  []string
	updates   []slotUpdate
	finalized []slotUpdate
}

func (r *recordingRenderer) ShowStatus(turnID, message string) {
	r.statuses = append(r.statuses, message)
}

func (r *recordingRenderer) UpdateSlot(turnID string, index int, item events.ContentItem) {
	r.updates = append(r.updates, slotUpdate{index: index, item: item})
}

func (r *recordingRenderer) FinalizeSlot(turnID string, index int, item events.ContentItem) {
	r.finalized = append(r.finalized, slotUpdate{index: index, item: item})
}

type recordingSink struct {
	messages []string
	codes    []events.Code
}

func (s *recordingSink) TurnFailed(message string, code events.Code) {
	s.messages = append(s.messages, message)
	s.codes = append(s.codes, code)
}

var _ = Describe("Reducer", func() {
	var (
		conv     chat.Conversation
		renderer *recordingRenderer
		sink     *recordingSink
		reducer  *chat.Reducer
	)

	BeforeEach(func() {
		conv = chat.NewConversation("claude-4-sonnet")
		conv = chat.AddMessage(conv, chat.NewUserMessage("show revenue"))
		renderer = &recordingRenderer{}
		sink = &recordingSink{}
		reducer = chat.NewReducer(&conv, renderer, sink)
	})

	Describe("state machine", func() {
		It("should start idle", func() {
			Expect(reducer.State()).To(Equal(chat.TurnIdle))
			Expect(reducer.Done()).To(BeFalse())
		})

		It("should enter streaming on the first content event", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "x"})
			Expect(reducer.State()).To(Equal(chat.TurnStreaming))
		})

		It("should not leave streaming on a status event", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "x"})
			reducer.Apply(events.Status{Message: "Running SQL"})
			Expect(reducer.State()).To(Equal(chat.TurnStreaming))
		})
	})

	Describe("status events", func() {
		It("should surface each label to the renderer, latest superseding", func() {
			reducer.Apply(events.Status{Message: "Thinking"})
			reducer.Apply(events.Status{Message: "Running SQL"})

			Expect(renderer.statuses).To(Equal([]string{"Thinking", "Running SQL"}))
		})

		It("should not touch any slot", func() {
			reducer.Apply(events.Status{Message: "Thinking"})

			Expect(renderer.updates).To(BeEmpty())
			Expect(reducer.LiveBuffers()).To(Equal(0))
		})

		It("should clear the label on the first content event", func() {
			reducer.Apply(events.Status{Message: "Thinking"})
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "x"})

			Expect(renderer.statuses).To(Equal([]string{"Thinking", ""}))
		})
	})

	Describe("text deltas", func() {
		It("should accumulate by concatenation and emit the full buffer each time", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "Here is "})
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "your revenue."})

			Expect(reducer.BufferedContent(0)).To(Equal("Here is your revenue."))
			Expect(renderer.updates).To(HaveLen(2))
			Expect(renderer.updates[0].item.Text).To(Equal("Here is "))
			Expect(renderer.updates[1].item.Text).To(Equal("Here is your revenue."))
		})

		It("should keep slots independent regardless of index order", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 4, Text: "late slot"})
			reducer.Apply(events.TextDelta{ContentIndex: 1, Text: "early slot"})

			Expect(reducer.BufferedContent(4)).To(Equal("late slot"))
			Expect(reducer.BufferedContent(1)).To(Equal("early slot"))
		})
	})

	Describe("thinking events", func() {
		It("should accumulate thinking deltas", func() {
			reducer.Apply(events.ThinkingDelta{ContentIndex: 0, Text: "step 1. "})
			reducer.Apply(events.ThinkingDelta{ContentIndex: 0, Text: "step 2."})

			Expect(reducer.BufferedContent(0)).To(Equal("step 1. step 2."))
			Expect(renderer.updates[1].item.Type).To(Equal(events.ContentThinking))
		})

		It("should let a non-delta thinking event overwrite buffered deltas", func() {
			reducer.Apply(events.ThinkingDelta{ContentIndex: 0, Text: "partial reasoning"})
			reducer.Apply(events.Thinking{ContentIndex: 0, Text: "final reasoning"})

			Expect(reducer.BufferedContent(0)).To(Equal("final reasoning"))
			last := renderer.updates[len(renderer.updates)-1]
			Expect(last.item.Text).To(Equal("final reasoning"))
		})
	})

	Describe("atomic events", func() {
		It("should finalize a tool_use slot without buffering", func() {
			raw := json.RawMessage(`{"content_index":2,"tool_name":"sql_exec"}`)
			reducer.Apply(events.ToolUse{ContentIndex: 2, Raw: raw})

			Expect(reducer.LiveBuffers()).To(Equal(0))
			Expect(renderer.finalized).To(HaveLen(1))
			Expect(renderer.finalized[0].index).To(Equal(2))
			Expect(renderer.finalized[0].item.Type).To(Equal(events.ContentToolUse))
		})

		It("should let an atomic event win outright over stale buffered deltas", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "stale"})
			reducer.Apply(events.Chart{ContentIndex: 0, ChartSpec: `{"mark":"bar"}`})

			Expect(reducer.BufferedContent(0)).To(Equal(""))
			Expect(renderer.finalized[0].item.Chart.ChartSpec).To(Equal(`{"mark":"bar"}`))
		})

		It("should finalize a table slot with its result set", func() {
			rs := events.ResultSet{
				Data: [][]any{{1, "a"}},
				Metadata: events.ResultSetMeta{
					RowType: []events.Column{{Name: "id"}, {Name: "label"}},
				},
			}
			reducer.Apply(events.Table{ContentIndex: 0, ResultSet: rs})

			Expect(renderer.finalized).To(HaveLen(1))
			item := renderer.finalized[0].item
			Expect(item.Type).To(Equal(events.ContentTable))
			Expect(item.Table.ResultSet.ColumnNames()).To(Equal([]string{"id", "label"}))
			Expect(item.Table.ResultSet.Data).To(Equal([][]any{{1, "a"}}))
		})
	})

	Describe("error events", func() {
		It("should roll back exactly one message and discard buffers", func() {
			before := chat.GetMessageCount(conv)
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "partial"})

			reducer.Apply(events.Error{Message: "timeout", Code: events.Code("504")})

			Expect(reducer.State()).To(Equal(chat.TurnFailed))
			Expect(chat.GetMessageCount(conv)).To(Equal(before - 1))
			Expect(reducer.LiveBuffers()).To(Equal(0))
		})

		It("should surface message and code to the error sink", func() {
			reducer.Apply(events.Error{Message: "timeout", Code: events.Code("504")})

			Expect(sink.messages).To(Equal([]string{"timeout"}))
			Expect(sink.codes).To(Equal([]events.Code{events.Code("504")}))
		})

		It("should ignore events after the failure", func() {
			reducer.Apply(events.Error{Message: "timeout", Code: events.Code("504")})
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "late"})

			Expect(reducer.BufferedContent(0)).To(Equal(""))
			Expect(chat.GetMessageCount(conv)).To(Equal(0))
		})
	})

	Describe("response events", func() {
		It("should append the authoritative message verbatim", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "Here is "})
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "your revenue."})

			content := []events.ContentItem{events.TextItem("Here is your revenue.")}
			reducer.Apply(events.Response{Role: "assistant", Content: content})

			Expect(reducer.State()).To(Equal(chat.TurnCompleted))
			Expect(chat.GetMessageCount(conv)).To(Equal(2))

			last, ok := chat.GetLastMessage(conv)
			Expect(ok).To(BeTrue())
			Expect(last.Role).To(Equal(chat.RoleAssistant))
			Expect(last.Content).To(Equal(content))
		})

		It("should be authoritative even for slots that never streamed", func() {
			content := []events.ContentItem{
				events.TextItem("answer"),
				events.ChartItem(`{"mark":"line"}`),
			}
			reducer.Apply(events.Response{Role: "assistant", Content: content})

			last, _ := chat.GetLastMessage(conv)
			Expect(last.Content).To(HaveLen(2))
		})

		It("should discard all buffers on completion", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "buffered"})
			reducer.Apply(events.Response{Role: "assistant", Content: nil})

			Expect(reducer.LiveBuffers()).To(Equal(0))
		})

		It("should default a missing role to assistant", func() {
			reducer.Apply(events.Response{Content: []events.ContentItem{events.TextItem("x")}})

			last, _ := chat.GetLastMessage(conv)
			Expect(last.Role).To(Equal(chat.RoleAssistant))
		})
	})

	Describe("ApplyRaw", func() {
		It("should skip malformed events and keep processing", func() {
			reducer.ApplyRaw(events.KindTextDelta, []byte(`{"content_index":"broken"`))
			reducer.ApplyRaw(events.KindTextDelta, []byte(`{"content_index":0,"text":"good"}`))

			Expect(reducer.BufferedContent(0)).To(Equal("good"))
		})
	})

	Describe("Cancel", func() {
		It("should behave like an error transition without notifying the sink", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "partial"})

			reducer.Cancel()

			Expect(reducer.State()).To(Equal(chat.TurnFailed))
			Expect(chat.GetMessageCount(conv)).To(Equal(0))
			Expect(reducer.LiveBuffers()).To(Equal(0))
			Expect(sink.messages).To(BeEmpty())
		})
	})

	Describe("Finish", func() {
		It("should release buffers when the stream ends without a terminal event", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "dangling"})

			reducer.Finish()

			Expect(reducer.LiveBuffers()).To(Equal(0))
		})
	})

	Describe("end-to-end event sequences", func() {
		It("should build a two-message transcript from a simple text stream", func() {
			reducer.Apply(events.Status{Message: "Thinking"})
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "Here is "})
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "your revenue."})
			reducer.Apply(events.Response{
				Role:    "assistant",
				Content: []events.ContentItem{events.TextItem("Here is your revenue.")},
			})

			Expect(chat.GetMessageCount(conv)).To(Equal(2))
			last, _ := chat.GetLastMessage(conv)
			Expect(last.Content).To(HaveLen(1))
			Expect(last.Content[0].Text).To(Equal("Here is your revenue."))
		})

		It("should revert the transcript on a mid-stream error", func() {
			reducer.Apply(events.TextDelta{ContentIndex: 0, Text: "partial"})
			reducer.Apply(events.Error{Message: "timeout", Code: events.Code("504")})

			Expect(chat.GetMessageCount(conv)).To(Equal(0))
			Expect(sink.messages).To(ConsistOf("timeout"))
			Expect(sink.codes).To(ConsistOf(events.Code("504")))
		})
	})
})
