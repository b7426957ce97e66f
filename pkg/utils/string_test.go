package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Truncate", func() {
	It("returns the string unchanged when within the limit", func() {
		Expect(Truncate("short", 10)).To(Equal("short"))
	})

	It("returns the string unchanged when exactly at the limit", func() {
		Expect(Truncate("12345", 5)).To(Equal("12345"))
	})

	It("truncates with ellipsis when over the limit", func() {
		Expect(Truncate("this is a long string", 10)).To(Equal("this is a ..."))
	})
})

var _ = Describe("FirstLine", func() {
	It("returns single-line strings unchanged", func() {
		Expect(FirstLine("one line")).To(Equal("one line"))
	})

	It("cuts at the first newline", func() {
		Expect(FirstLine("first\nsecond\nthird")).To(Equal("first"))
	})

	It("returns empty for a leading newline", func() {
		Expect(FirstLine("\nrest")).To(Equal(""))
	})
})
