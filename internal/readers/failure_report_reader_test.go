package reader_test

import (
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"testing"

	readers "github.com/zdziszkee/failure-reports/internal/readers"
	"github.com/zdziszkee/failure-reports/internal/readers/csv"
)

func TestCSV(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CSV Reader Suite")
}

type errorReader struct{}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

// paymentRow builds a 16 column row with the given columns set.
func paymentRow(columns map[int]string) string {
	row := make([]string, readers.RowColumns)
	for i, value := range columns {
		row[i] = value
	}
	return strings.Join(row, ",")
}

const header = "USD,F001,Insufficient funds"

var _ = Describe("Column mapping", func() {
	It("should map the header positions", func() {
		h, ok := readers.NewFailureHeader([]string{"USD", "F001", "Insufficient funds", "extra"})
		Expect(ok).To(BeTrue())
		Expect(h).To(Equal(readers.FailureHeader{
			Currency:       "USD",
			FailureCode:    "F001",
			FailureMessage: "Insufficient funds",
		}))
	})

	It("should reject a header with fewer than three columns", func() {
		_, ok := readers.NewFailureHeader([]string{"USD", "F001"})
		Expect(ok).To(BeFalse())
	})

	It("should map the payment row positions", func() {
		columns := make([]string, readers.RowColumns)
		for i := range columns {
			columns[i] = string(rune('a' + i))
		}

		row, ok := readers.NewFailureRow(columns)
		Expect(ok).To(BeTrue())
		Expect(row).To(Equal(readers.FailureRow{
			BankCode:          "a",
			BankBranchCode:    "c",
			BankAccountNumber: "g",
			BankAccountName:   "h",
			Amount:            "i",
			FirstEndToEndID:   "k",
			LastEndToEndID:    "l",
		}))
	})

	DescribeTable("should reject rows that are not exactly 16 columns wide",
		func(width int) {
			_, ok := readers.NewFailureRow(make([]string, width))
			Expect(ok).To(BeFalse())
		},
		Entry("empty", 0),
		Entry("single column", 1),
		Entry("one short", 15),
		Entry("one over", 17),
	)
})

var _ = Describe("CSVFailureReportReader", func() {
	var csvReader *csv.CSVFailureReportReader

	BeforeEach(func() {
		csvReader = &csv.CSVFailureReportReader{}
	})

	Context("ReadFailureReport", func() {
		It("should fail on empty input", func() {
			_, rows, err := csvReader.ReadFailureReport(strings.NewReader(""))
			Expect(err).To(MatchError(readers.ErrHeaderRead))
			Expect(rows).To(BeEmpty())
		})

		It("should fail on a header that is too narrow", func() {
			_, _, err := csvReader.ReadFailureReport(strings.NewReader("USD,F001\n"))
			Expect(err).To(MatchError(readers.ErrHeaderRead))
			Expect(err.Error()).To(ContainSubstring("expected at least 3 columns, got 2"))
		})

		It("should handle reader errors", func() {
			_, _, err := csvReader.ReadFailureReport(&errorReader{})
			Expect(err).To(MatchError(readers.ErrHeaderRead))
			Expect(err.Error()).To(ContainSubstring("unexpected EOF"))
		})

		It("should handle only header, no data", func() {
			h, rows, err := csvReader.ReadFailureReport(strings.NewReader(header))
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Currency).To(Equal("USD"))
			Expect(h.FailureCode).To(Equal("F001"))
			Expect(h.FailureMessage).To(Equal("Insufficient funds"))
			Expect(rows).To(BeEmpty())
		})

		It("should handle multiple valid rows in order", func() {
			input := header + "\n" +
				paymentRow(map[int]string{0: "001", 7: "Jane Doe"}) + "\n" +
				paymentRow(map[int]string{0: "002", 7: "John Roe"}) + "\n"

			_, rows, err := csvReader.ReadFailureReport(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].BankCode).To(Equal("001"))
			Expect(rows[0].BankAccountName).To(Equal("Jane Doe"))
			Expect(rows[1].BankCode).To(Equal("002"))
		})

		It("should silently skip rows of the wrong width", func() {
			input := header + "\n" +
				paymentRow(map[int]string{0: "001"}) + "\n" +
				"TOTAL,1\n" +
				"\n" +
				paymentRow(map[int]string{0: "002"}) + ",extra\n" +
				paymentRow(map[int]string{0: "003"}) + "\n"

			_, rows, err := csvReader.ReadFailureReport(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].BankCode).To(Equal("001"))
			Expect(rows[1].BankCode).To(Equal("003"))
		})

		It("should keep values verbatim", func() {
			input := header + "\n" + paymentRow(map[int]string{0: " 001 ", 2: "0", 8: " 12.34"})

			_, rows, err := csvReader.ReadFailureReport(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].BankCode).To(Equal(" 001 "))
			Expect(rows[0].BankBranchCode).To(Equal("0"))
			Expect(rows[0].Amount).To(Equal(" 12.34"))
		})

		It("should handle CSV with quoted fields", func() {
			input := header + "\n" + paymentRow(map[int]string{7: `"Doe, Jane"`, 10: `"AB""C"`})

			_, rows, err := csvReader.ReadFailureReport(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].BankAccountName).To(Equal("Doe, Jane"))
			Expect(rows[0].FirstEndToEndID).To(Equal(`AB"C`))
		})

		It("should read a quoted header", func() {
			input := `"EUR","F002","Account closed, contact bank"` + "\n"

			h, _, err := csvReader.ReadFailureReport(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(h.FailureMessage).To(Equal("Account closed, contact bank"))
		})

		It("should keep the rows that follow a skipped one", func() {
			input := header + "\n" +
				"short\n" +
				paymentRow(map[int]string{0: "001"}) + "\n"

			_, rows, err := csvReader.ReadFailureReport(strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].BankCode).To(Equal("001"))
		})
	})
})
