package sequence

import (
	"fmt"
	"time"

	"github.com/tubetrade/backend/internal/domain/shared"
)

// DocumentType identifies a numbered document family. Every family keeps an
// independent counter per fiscal year.
type DocumentType string

const (
	DocumentTypeQuotation       DocumentType = "QUOTATION"
	DocumentTypeSalesOrder      DocumentType = "SALES_ORDER"
	DocumentTypePurchaseOrder   DocumentType = "PURCHASE_ORDER"
	DocumentTypeGoodsReceipt    DocumentType = "GOODS_RECEIPT"
	DocumentTypePackingList     DocumentType = "PACKING_LIST"
	DocumentTypeDispatchNote    DocumentType = "DISPATCH_NOTE"
	DocumentTypeInvoiceDomestic DocumentType = "INVOICE_DOMESTIC"
	DocumentTypeInvoiceExport   DocumentType = "INVOICE_EXPORT"
)

// defaultPrefixes maps document types to their human-readable number prefixes
var defaultPrefixes = map[DocumentType]string{
	DocumentTypeQuotation:       "QT",
	DocumentTypeSalesOrder:      "SO",
	DocumentTypePurchaseOrder:   "PO",
	DocumentTypeGoodsReceipt:    "PR",
	DocumentTypePackingList:     "PL",
	DocumentTypeDispatchNote:    "DN",
	DocumentTypeInvoiceDomestic: "INV",
	DocumentTypeInvoiceExport:   "EXP",
}

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	_, ok := defaultPrefixes[t]
	return ok
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// Prefix returns the number prefix for the document type
func (t DocumentType) Prefix() string {
	return defaultPrefixes[t]
}

// DocumentSequence is one counter row per (document type, fiscal year). The
// counter only ever moves forward, and only via the repository's atomic
// insert-or-increment; reading it here is informational.
type DocumentSequence struct {
	shared.BaseEntity
	DocumentType DocumentType `gorm:"type:varchar(40);not null;uniqueIndex:idx_doc_seq_type_year,priority:1"`
	FiscalYear   string       `gorm:"type:varchar(10);not null;uniqueIndex:idx_doc_seq_type_year,priority:2"`
	Counter      int64        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// FiscalYearKey returns the accounting-year key for a point in time. The
// fiscal year runs April through March, so 2024-06-15 is "24-25" and
// 2025-02-01 is "24-25" as well.
func FiscalYearKey(at time.Time) string {
	year := at.Year()
	if at.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%02d-%02d", year%100, (year+1)%100)
}

// FormatNumber renders a counter value as the human-readable document number,
// e.g. PR/24-25/00001.
func FormatNumber(docType DocumentType, fiscalYear string, counter int64) string {
	return FormatNumberWithPrefix(docType.Prefix(), fiscalYear, counter)
}

// FormatNumberWithPrefix renders a number under a caller-chosen prefix.
// Deployments that print "DC" on dispatch challans instead of "DN" configure
// the override; the counter row is still keyed by document type.
func FormatNumberWithPrefix(prefix, fiscalYear string, counter int64) string {
	return fmt.Sprintf("%s/%s/%05d", prefix, fiscalYear, counter)
}
