package chat_test

import (
	"github.com/killallgit/slate/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BufferTable", func() {
	var table *chat.BufferTable

	BeforeEach(func() {
		table = chat.NewBufferTable()
	})

	Describe("Append", func() {
		It("should create the buffer on first append", func() {
			Expect(table.Has(0)).To(BeFalse())

			table.Append(0, "hello")

			Expect(table.Has(0)).To(BeTrue())
			Expect(table.Get(0)).To(Equal("hello"))
		})

		It("should concatenate fragments in arrival order with no separator", func() {
			table.Append(0, "t1")
			table.Append(0, "t2")
			table.Append(0, "t3")

			Expect(table.Get(0)).To(Equal("t1t2t3"))
		})

		It("should keep slots independent", func() {
			table.Append(3, "three")
			table.Append(1, "one")

			Expect(table.Get(3)).To(Equal("three"))
			Expect(table.Get(1)).To(Equal("one"))
			Expect(table.Indices()).To(Equal([]int{1, 3}))
		})
	})

	Describe("Set", func() {
		It("should overwrite prior fragments", func() {
			table.Append(0, "partial ")
			table.Set(0, "authoritative")

			Expect(table.Get(0)).To(Equal("authoritative"))
		})
	})

	Describe("Get", func() {
		It("should return empty for an unknown slot without creating it", func() {
			Expect(table.Get(9)).To(Equal(""))
			Expect(table.Has(9)).To(BeFalse())
			Expect(table.Len()).To(Equal(0))
		})
	})

	Describe("Clear", func() {
		It("should discard a single slot", func() {
			table.Append(0, "a")
			table.Append(1, "b")

			table.Clear(0)

			Expect(table.Has(0)).To(BeFalse())
			Expect(table.Get(1)).To(Equal("b"))
		})
	})

	Describe("ClearAll", func() {
		It("should discard every buffer", func() {
			table.Append(0, "a")
			table.Append(1, "b")

			table.ClearAll()

			Expect(table.Len()).To(Equal(0))
		})
	})
})
