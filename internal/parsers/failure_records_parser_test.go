package parser_test

import (
	"math"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	models "github.com/zdziszkee/failure-reports/internal/models"
	parser "github.com/zdziszkee/failure-reports/internal/parsers"
	readers "github.com/zdziszkee/failure-reports/internal/readers"
)

func TestFailureRecordsParser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FailureRecordsParser Suite")
}

var _ = Describe("DefaultFailureRecordsParser", func() {
	var (
		p      parser.FailureRecordsParser
		header readers.FailureHeader
		rows   []readers.FailureRow
	)

	BeforeEach(func() {
		p = parser.DefaultFailureRecordsParser{}
		header = readers.FailureHeader{
			Currency:       "USD",
			FailureCode:    "F001",
			FailureMessage: "Insufficient funds",
		}
		rows = []readers.FailureRow{}
	})

	Describe("ParseFailureRecords", func() {
		Context("with a complete row", func() {
			BeforeEach(func() {
				rows = []readers.FailureRow{
					{
						BankCode:          "001",
						BankBranchCode:    "002",
						BankAccountNumber: "123456",
						BankAccountName:   "Jane Doe",
						Amount:            "12.34",
						FirstEndToEndID:   "ABC",
						LastEndToEndID:    "123",
					},
				}
			})

			It("should parse the record correctly", func() {
				records, err := p.ParseFailureRecords(header, rows)
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(Equal([]models.PaymentRecord{
					{
						Amount:            models.Amount{Currency: "USD", Subunits: 1234},
						BankAccountName:   "jane_doe",
						BankAccountNumber: models.Present[int64](123456),
						BankBranchCode:    models.Present("002"),
						BankCode:          "001",
						EndToEndID:        models.Present("ABC123"),
					},
				}))
			})
		})

		Context("with blank mandatory fields", func() {
			BeforeEach(func() {
				rows = []readers.FailureRow{
					{BankCode: "001", Amount: ""},
					{BankCode: "002", BankBranchCode: "0", BankAccountNumber: "0", Amount: "0", FirstEndToEndID: "0", LastEndToEndID: "0"},
				}
			})

			It("should substitute the missing reasons", func() {
				records, err := p.ParseFailureRecords(header, rows)
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(2))

				for _, record := range records {
					Expect(record.Amount).To(Equal(models.Amount{Currency: "USD", Subunits: 0}))
					Expect(record.BankAccountNumber.String()).To(Equal("Bank account number missing"))
					Expect(record.BankBranchCode.String()).To(Equal("Bank branch code missing"))
					Expect(record.EndToEndID.String()).To(Equal("End to end id missing"))
				}
				Expect(records[0].BankCode).To(Equal("001"))
				Expect(records[1].BankCode).To(Equal("002"))
			})
		})

		Context("with no rows", func() {
			It("should return an empty record set", func() {
				records, err := p.ParseFailureRecords(header, rows)
				Expect(err).NotTo(HaveOccurred())
				Expect(records).NotTo(BeNil())
				Expect(records).To(BeEmpty())
			})
		})

		It("should apply the header currency to every record", func() {
			header.Currency = "EUR"
			rows = []readers.FailureRow{{Amount: "1"}, {Amount: "2.5"}}

			records, err := p.ParseFailureRecords(header, rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(records[0].Amount).To(Equal(models.Amount{Currency: "EUR", Subunits: 100}))
			Expect(records[1].Amount).To(Equal(models.Amount{Currency: "EUR", Subunits: 250}))
		})
	})
})

var _ = Describe("Field coercion", func() {
	DescribeTable("Subunits",
		func(amount string, expected int64) {
			Expect(parser.Subunits(amount)).To(Equal(expected))
		},
		Entry("blank", "", int64(0)),
		Entry("literal zero", "0", int64(0)),
		Entry("decimal zero", "0.00", int64(0)),
		Entry("two decimals", "12.34", int64(1234)),
		Entry("binary float trap", "0.29", int64(29)),
		Entry("another float trap", "1.15", int64(115)),
		Entry("whole number", "100", int64(10000)),
		Entry("single decimal", "2.5", int64(250)),
		Entry("finer than subunits truncates", "9.999", int64(999)),
		Entry("negative truncates toward zero", "-1.239", int64(-123)),
		Entry("leading dot", ".5", int64(50)),
		Entry("trailing dot", "7.", int64(700)),
		Entry("exponent", "1.5e2", int64(15000)),
		Entry("leading whitespace", "  3.10", int64(310)),
		Entry("trailing text", "12.34 USD", int64(1234)),
		Entry("thousands separator stops the number", "1,234.56", int64(100)),
		Entry("no leading number", "N/A", int64(0)),
		Entry("largest representable amount", "92233720368547758.07", int64(math.MaxInt64)),
		Entry("smallest representable amount", "-92233720368547758.08", int64(math.MinInt64)),
		Entry("above the int64 range saturates", "100000000000000000", int64(math.MaxInt64)),
		Entry("exponent above the int64 range saturates", "1e20", int64(math.MaxInt64)),
		Entry("negative amount below the int64 range saturates", "-1e20", int64(math.MinInt64)),
		Entry("huge exponent saturates", "1e20000000", int64(math.MaxInt64)),
		Entry("exponent beyond int32 saturates", "1e99999999999", int64(math.MaxInt64)),
		Entry("huge negative exponent is zero", "1e-20000000", int64(0)),
		Entry("below a hundredth is zero", "0.005", int64(0)),
		Entry("leading zeros in the fraction", "0.05", int64(5)),
		Entry("zero with an exponent", "0e20000000", int64(0)),
	)

	It("should coerce enormous amounts without expanding them", func() {
		amounts := []string{
			"1e2147483647",
			"1e-2147483648",
			"1" + strings.Repeat("0", 1<<20),
			"0." + strings.Repeat("0", 1<<20) + "1",
			strings.Repeat("9", 1<<20) + "e-1048570",
		}
		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			defer close(done)
			Expect(parser.Subunits(amounts[0])).To(Equal(int64(math.MaxInt64)))
			Expect(parser.Subunits(amounts[1])).To(BeZero())
			Expect(parser.Subunits(amounts[2])).To(Equal(int64(math.MaxInt64)))
			Expect(parser.Subunits(amounts[3])).To(BeZero())
			Expect(parser.Subunits(amounts[4])).To(Equal(int64(99999999)))
		}()
		Eventually(done, "2s").Should(BeClosed())
	})

	DescribeTable("AccountName",
		func(name, expected string) {
			Expect(parser.AccountName(name)).To(Equal(expected))
		},
		Entry("spaces and case", "Jane Doe", "jane_doe"),
		Entry("already normalized", "jane_doe", "jane_doe"),
		Entry("multiple spaces", "ACME  Corp Ltd", "acme__corp_ltd"),
		Entry("empty", "", ""),
	)

	It("should never leave spaces or uppercase letters in account names", func() {
		for _, name := range []string{"Jane Doe", " LEADING", "TRAILING ", "MiXeD CaSe NaMe", "a b c d"} {
			Expect(parser.AccountName(name)).To(MatchRegexp(`^[^ A-Z]*$`))
		}
	})

	DescribeTable("AccountNumber",
		func(number string, expected models.Field[int64]) {
			Expect(parser.AccountNumber(number)).To(Equal(expected))
		},
		Entry("digits", "123456", models.Present[int64](123456)),
		Entry("leading zeros", "000123", models.Present[int64](123)),
		Entry("trailing text", "123-45", models.Present[int64](123)),
		Entry("no digits", "ACC", models.Present[int64](0)),
		Entry("out of range saturates", "99999999999999999999", models.Present[int64](9223372036854775807)),
		Entry("blank", "", models.Missing[int64](models.MissingBankAccountNumber)),
		Entry("literal zero", "0", models.Missing[int64](models.MissingBankAccountNumber)),
	)

	DescribeTable("BranchCode",
		func(code string, expected models.Field[string]) {
			Expect(parser.BranchCode(code)).To(Equal(expected))
		},
		Entry("verbatim", "002", models.Present("002")),
		Entry("double zero is kept", "00", models.Present("00")),
		Entry("blank", "", models.Missing[string](models.MissingBankBranchCode)),
		Entry("literal zero", "0", models.Missing[string](models.MissingBankBranchCode)),
	)

	DescribeTable("EndToEndID",
		func(first, last string, expected models.Field[string]) {
			Expect(parser.EndToEndID(first, last)).To(Equal(expected))
		},
		Entry("both halves", "ABC", "123", models.Present("ABC123")),
		Entry("first half only", "ABC", "", models.Present("ABC")),
		Entry("last half only", "", "123", models.Present("123")),
		Entry("zero with a value", "0", "123", models.Present("0123")),
		Entry("both blank", "", "", models.Missing[string](models.MissingEndToEndID)),
		Entry("both zero", "0", "0", models.Missing[string](models.MissingEndToEndID)),
		Entry("zero and blank", "0", "", models.Missing[string](models.MissingEndToEndID)),
	)
})
