package api

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		tempDir string
		db      *BoltDB
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "ai-services-db-*")
		Expect(err).NotTo(HaveOccurred())

		db, err = NewBoltDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
		os.RemoveAll(tempDir)
	})

	newScan := func(id string) *BillScan {
		total := 45.50
		date := "03/14/2024"
		return &BillScan{
			ID:          id,
			Filename:    "bill.png",
			ContentType: "image/png",
			RawText:     "X-ray $30.00\nCleaning $15.50",
			TotalPrice:  &total,
			Date:        &date,
			StoredFile:  id + "_bill.png",
			CreatedAt:   time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC),
		}
	}

	Describe("SaveBillScan and GetBillScan", func() {
		It("should round-trip a scan record", func() {
			Expect(db.SaveBillScan(newScan("s1"))).To(Succeed())

			got, err := db.GetBillScan("s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Filename).To(Equal("bill.png"))
			Expect(*got.TotalPrice).To(Equal(45.50))
			Expect(*got.Date).To(Equal("03/14/2024"))
		})

		It("should fail for a missing ID", func() {
			_, err := db.GetBillScan("missing")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListBillScans", func() {
		It("should return an empty slice when no scans exist", func() {
			scans, err := db.ListBillScans()
			Expect(err).NotTo(HaveOccurred())
			Expect(scans).To(BeEmpty())
		})

		It("should return all saved scans", func() {
			Expect(db.SaveBillScan(newScan("s1"))).To(Succeed())
			Expect(db.SaveBillScan(newScan("s2"))).To(Succeed())

			scans, err := db.ListBillScans()
			Expect(err).NotTo(HaveOccurred())
			Expect(scans).To(HaveLen(2))
		})
	})

	Describe("DeleteBillScan", func() {
		It("should remove the scan", func() {
			Expect(db.SaveBillScan(newScan("s1"))).To(Succeed())
			Expect(db.DeleteBillScan("s1")).To(Succeed())

			_, err := db.GetBillScan("s1")
			Expect(err).To(HaveOccurred())
		})
	})
})
