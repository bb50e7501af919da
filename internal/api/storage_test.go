package api

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tempDir string
		storage *LocalStorage
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "ai-services-storage-*")
		Expect(err).NotTo(HaveOccurred())

		storage, err = NewLocalStorage(tempDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	It("should save and retrieve a file", func() {
		path, err := storage.Save("bill.png", []byte("image data"))
		Expect(err).NotTo(HaveOccurred())

		data, err := storage.Get(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("image data")))
	})

	It("should delete a file", func() {
		path, err := storage.Save("bill.png", []byte("image data"))
		Expect(err).NotTo(HaveOccurred())
		Expect(storage.Delete(path)).To(Succeed())

		_, err = storage.Get(path)
		Expect(err).To(HaveOccurred())
	})

	It("should fail to get a missing file", func() {
		_, err := storage.Get("missing.png")
		Expect(err).To(HaveOccurred())
	})

	It("should create the base directory if needed", func() {
		nested, err := NewLocalStorage(tempDir + "/a/b")
		Expect(err).NotTo(HaveOccurred())
		Expect(nested).NotTo(BeNil())
	})
})
