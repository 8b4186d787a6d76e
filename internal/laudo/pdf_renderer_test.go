package laudo

import (
	"strings"
	"testing"
)

func TestLaudoHTMLEscapesDocumentText(t *testing.T) {
	report := Report{
		ID:       "LAUDO-ABCD1234-12345678900",
		Document: "Avaliado: <script>alert('x')</script> & Cia",
	}

	doc := laudoHTML(report)

	if strings.Contains(doc, "<script>") {
		t.Fatalf("document text was not escaped: %s", doc)
	}
	if !strings.Contains(doc, "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt; &amp; Cia") {
		t.Fatalf("escaped document text missing from HTML: %s", doc)
	}
	if !strings.Contains(doc, "<title>Laudo Caracterizador LAUDO-ABCD1234-12345678900</title>") {
		t.Fatalf("title missing laudo id: %s", doc)
	}
}

func TestLaudoHTMLPreservesLineBreaksInPre(t *testing.T) {
	report := Report{ID: "LAUDO-X", Document: "linha um\nlinha dois"}

	doc := laudoHTML(report)

	if !strings.Contains(doc, "<pre class='laudo-body'>linha um\nlinha dois</pre>") {
		t.Fatalf("laudo body not embedded verbatim in <pre>: %s", doc)
	}
}
