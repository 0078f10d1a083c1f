package xmldom

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringPrettyNested(t *testing.T) {
	d := mustParse(t, "<root><potato/></root>")
	sel, err := NewSelector("potato")
	if err != nil {
		t.Fatalf("NewSelector() error = %v", err)
	}
	potato, ok := d.QuerySelector(d.Root(), sel)
	if !ok {
		t.Fatal("QuerySelector(potato) ok = false, want true")
	}
	if _, err := d.AppendNewElement(potato, "wow", []Attr{
		{Name: "easy", Value: "true"},
		{Name: "x", Value: "200"},
	}); err != nil {
		t.Fatalf("AppendNewElement() error = %v", err)
	}

	want := strings.Join([]string{
		"<root>",
		"  <potato>",
		`    <wow easy="true" x="200" />`,
		"  </potato>",
		"</root>",
		"",
	}, "\n")
	if diff := cmp.Diff(want, d.StringPretty()); diff != "" {
		t.Fatalf("StringPretty() mismatch (-want +got):\n%s", diff)
	}
}

func TestStringPrettyReflowsText(t *testing.T) {
	d := mustParse(t, "<text>\n    Actual Output\n    </text>")
	want := "<text>\n  Actual Output\n</text>\n"
	if got := d.StringPretty(); got != want {
		t.Fatalf("StringPretty() = %q, want %q", got, want)
	}
}

func TestStringPrettySkipsWhitespaceOnlyText(t *testing.T) {
	d := mustParse(t, "<a>\n  <b/>\n</a>")
	want := "<a>\n  <b/>\n</a>\n"
	if got := d.StringPretty(); got != want {
		t.Fatalf("StringPretty() = %q, want %q", got, want)
	}
}

func TestStringPrettyFlushText(t *testing.T) {
	d := mustParse(t, "<r><p>text<b/>more</p></r>")
	cfg := PrettyConfig()
	cfg.IndentTextNodes = false
	want := "<r>\n  <p>text<b/>more</p>\n</r>\n"
	if got := d.StringPrettyWithConfig(cfg); got != want {
		t.Fatalf("StringPrettyWithConfig() = %q, want %q", got, want)
	}
}

func TestStringPrettyAttributeWrapping(t *testing.T) {
	d, _ := New("e")
	root := d.Root()
	for _, a := range []Attr{{Name: "aaaa", Value: "1111"}, {Name: "bbbb", Value: "2222"}} {
		if err := d.SetAttribute(root, a.Name, a.Value); err != nil {
			t.Fatalf("SetAttribute() error = %v", err)
		}
	}

	cfg := PrettyConfig()
	cfg.MaxLineLength = 10
	want := "<e\n  aaaa=\"1111\"\n  bbbb=\"2222\" />\n"
	if got := d.StringPrettyWithConfig(cfg); got != want {
		t.Fatalf("StringPrettyWithConfig() = %q, want %q", got, want)
	}

	// A wide enough line keeps everything on one line.
	cfg.MaxLineLength = 120
	want = "<e aaaa=\"1111\" bbbb=\"2222\" />\n"
	if got := d.StringPrettyWithConfig(cfg); got != want {
		t.Fatalf("StringPrettyWithConfig() = %q, want %q", got, want)
	}
}

func TestStringPrettyFirstAttributeFits(t *testing.T) {
	d, _ := New("e")
	if err := d.SetAttribute(d.Root(), "a", "1"); err != nil {
		t.Fatalf("SetAttribute() error = %v", err)
	}
	if err := d.SetAttribute(d.Root(), "bbbb", "2222"); err != nil {
		t.Fatalf("SetAttribute() error = %v", err)
	}
	cfg := PrettyConfig()
	cfg.MaxLineLength = 10
	want := "<e a=\"1\"\n  bbbb=\"2222\" />\n"
	if got := d.StringPrettyWithConfig(cfg); got != want {
		t.Fatalf("StringPrettyWithConfig() = %q, want %q", got, want)
	}
}

func TestAttributeEscaping(t *testing.T) {
	d, _ := New("root")
	value := "\x00\x00\x00\x00\x00 \"'&'\""
	if err := d.SetAttribute(d.Root(), "a", value); err != nil {
		t.Fatalf("SetAttribute() error = %v", err)
	}

	want := `<root a="&#x0000;&#x0000;&#x0000;&#x0000;&#x0000; &quot;&apos;&amp;&apos;&quot;" />`
	if got := d.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	cfg := DefaultConfig()
	cfg.EntityMode = EntityModeHex
	want = `<root a="&#x0000;&#x0000;&#x0000;&#x0000;&#x0000; &#x0022;&#x0027;&#x0026;&#x0027;&#x0022;" />`
	if got := d.StringPrettyWithConfig(cfg); got != want {
		t.Fatalf("hex String() = %q, want %q", got, want)
	}
}

func TestTextEscaping(t *testing.T) {
	tests := []struct {
		name string
		text string
		mode EntityMode
		want string
	}{
		{"specials named", "a & b < c > d", EntityModeStandard, "<r>a &amp; b &lt; c &gt; d</r>"},
		{"quotes raw in text", `say "hi" and 'bye'`, EntityModeStandard, `<r>say "hi" and 'bye'</r>`},
		{"specials hex", "a & b", EntityModeHex, "<r>a &#x0026; b</r>"},
		{"nbsp always escaped", "a\u00a0b", EntityModeStandard, "<r>a&#x00A0;b</r>"},
		{"tab raw in text", "a\tb", EntityModeStandard, "<r>a\tb</r>"},
		{"newline raw in text", "a\nb", EntityModeStandard, "<r>a\nb</r>"},
		{"emoji raw", "a😀b", EntityModeStandard, "<r>a😀b</r>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, _ := New("r")
			if err := d.SetText(d.Root(), tc.text); err != nil {
				t.Fatalf("SetText() error = %v", err)
			}
			cfg := DefaultConfig()
			cfg.EntityMode = tc.mode
			if got := d.StringPrettyWithConfig(cfg); got != tc.want {
				t.Fatalf("render = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSeparatorEscapedInAttribute(t *testing.T) {
	d, _ := New("r")
	if err := d.SetAttribute(d.Root(), "a", "x\ty"); err != nil {
		t.Fatalf("SetAttribute() error = %v", err)
	}
	want := `<r a="x&#x0009;y" />`
	if got := d.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestCommentEscaping(t *testing.T) {
	d, _ := New("r")
	if _, err := d.AppendComment(d.Root(), "a & b"); err != nil {
		t.Fatalf("AppendComment() error = %v", err)
	}
	want := "<r><!--a &amp; b--></r>"
	if got := d.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestElementString(t *testing.T) {
	d := mustParse(t, "<r><a x=\"1\"><b/></a><c/></r>")
	a := d.Children(d.Root())[0]
	if got := d.ElementString(a); got != `<a x="1"><b/></a>` {
		t.Fatalf("ElementString() = %q", got)
	}
}

func TestPrint(t *testing.T) {
	d := mustParse(t, "<r><a/></r>")
	var sb strings.Builder
	if err := d.Print(&sb, DefaultConfig()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got := sb.String(); got != "<r><a/></r>" {
		t.Fatalf("Print() wrote %q", got)
	}
}

var errFail = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errFail }

func TestPrintPropagatesWriteError(t *testing.T) {
	d := mustParse(t, "<r><a/></r>")
	if err := d.Print(failingWriter{}, DefaultConfig()); err != errFail {
		t.Fatalf("Print() error = %v, want %v", err, errFail)
	}
}

func TestPrettyCDataOnOwnLine(t *testing.T) {
	d := mustParse(t, "<a><![CDATA[x < y]]></a>")
	want := "<a>\n  <![CDATA[x < y]]>\n</a>\n"
	if got := d.StringPretty(); got != want {
		t.Fatalf("StringPretty() = %q, want %q", got, want)
	}
}

func TestPrettyCommentIndented(t *testing.T) {
	d := mustParse(t, "<a><!--note--><b/></a>")
	want := "<a>\n  <!--note-->\n  <b/>\n</a>\n"
	if got := d.StringPretty(); got != want {
		t.Fatalf("StringPretty() = %q, want %q", got, want)
	}
}

func TestPrettyDeclarationOnOwnLine(t *testing.T) {
	d := mustParse(t, `<?xml version="1.0" encoding="UTF-8"?><r><a/></r>`)
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<r>\n  <a/>\n</r>\n"
	if got := d.StringPretty(); got != want {
		t.Fatalf("StringPretty() = %q, want %q", got, want)
	}
}
