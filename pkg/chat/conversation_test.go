package chat_test

import (
	"github.com/killallgit/slate/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Conversation", func() {
	var conv chat.Conversation

	BeforeEach(func() {
		conv = chat.NewConversation("claude-4-sonnet")
	})

	Describe("NewConversation", func() {
		It("should start empty with the given model", func() {
			Expect(chat.IsEmpty(conv)).To(BeTrue())
			Expect(conv.Model).To(Equal("claude-4-sonnet"))
		})
	})

	Describe("AddMessage", func() {
		It("should append without mutating the original", func() {
			updated := chat.AddMessage(conv, chat.NewUserMessage("hello"))

			Expect(chat.GetMessageCount(conv)).To(Equal(0))
			Expect(chat.GetMessageCount(updated)).To(Equal(1))
		})

		It("should preserve order", func() {
			conv = chat.AddMessage(conv, chat.NewUserMessage("first"))
			conv = chat.AddMessage(conv, chat.NewUserMessage("second"))

			messages := chat.GetMessages(conv)
			Expect(messages[0].PlainText()).To(Equal("first"))
			Expect(messages[1].PlainText()).To(Equal("second"))
		})
	})

	Describe("DropLastMessage", func() {
		It("should remove exactly the most recent message", func() {
			conv = chat.AddMessage(conv, chat.NewUserMessage("keep"))
			conv = chat.AddMessage(conv, chat.NewUserMessage("drop"))

			conv = chat.DropLastMessage(conv)

			Expect(chat.GetMessageCount(conv)).To(Equal(1))
			last, ok := chat.GetLastMessage(conv)
			Expect(ok).To(BeTrue())
			Expect(last.PlainText()).To(Equal("keep"))
		})

		It("should be a no-op on an empty transcript", func() {
			Expect(chat.GetMessageCount(chat.DropLastMessage(conv))).To(Equal(0))
		})
	})

	Describe("GetLastAssistantMessage", func() {
		It("should find the most recent assistant message", func() {
			conv = chat.AddMessage(conv, chat.NewUserMessage("question"))
			conv = chat.AddMessage(conv, chat.NewAssistantMessage(nil))
			conv = chat.AddMessage(conv, chat.NewUserMessage("followup"))

			msg, ok := chat.GetLastAssistantMessage(conv)
			Expect(ok).To(BeTrue())
			Expect(msg.IsAssistant()).To(BeTrue())
		})

		It("should report absence", func() {
			_, ok := chat.GetLastAssistantMessage(conv)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("GetMessages", func() {
		It("should return a defensive copy", func() {
			conv = chat.AddMessage(conv, chat.NewUserMessage("original"))

			messages := chat.GetMessages(conv)
			messages[0] = chat.NewUserMessage("mutated")

			fromConv := chat.GetMessages(conv)
			Expect(fromConv[0].PlainText()).To(Equal("original"))
		})
	})
})
