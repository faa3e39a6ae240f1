// Package printing turns sales, purchases and installment plans into
// printable documents.
//
// Documents are rendered from html/template templates compiled into the
// binary. When a PDFRenderer is configured (chromedp) the HTML is also
// converted to PDF, and when a DocumentStore is configured the PDF is
// uploaded and a download URL returned. Without a renderer the HTML is
// returned for the browser's print dialog.
package printing
