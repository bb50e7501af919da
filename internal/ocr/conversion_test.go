package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// testImage renders a tiny image for conversion tests
func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	return img
}

var _ = Describe("PrepareImage", func() {
	When("the upload is already PNG", func() {
		It("should return the bytes unchanged", func() {
			var buf bytes.Buffer
			Expect(png.Encode(&buf, testImage())).To(Succeed())

			out, err := PrepareImage(buf.Bytes(), "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(buf.Bytes()))
		})
	})

	When("the upload is JPEG", func() {
		It("should convert to PNG", func() {
			var buf bytes.Buffer
			Expect(jpeg.Encode(&buf, testImage(), nil)).To(Succeed())

			out, err := PrepareImage(buf.Bytes(), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())

			_, err = png.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("the upload cannot be decoded", func() {
		It("should fail with ErrInvalidImage", func() {
			_, err := PrepareImage([]byte("definitely not an image"), "image/png")
			Expect(err).To(MatchError(ErrInvalidImage))
		})
	})

	When("the upload claims to be a PDF but is not", func() {
		It("should fail with ErrInvalidImage", func() {
			_, err := PrepareImage([]byte("not a pdf"), "application/pdf")
			Expect(err).To(MatchError(ErrInvalidImage))
		})
	})
})
