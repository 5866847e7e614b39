package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AbhinavPrakashCoading/dockit/internal/extract"
	"github.com/AbhinavPrakashCoading/dockit/internal/ocr"
	"github.com/AbhinavPrakashCoading/dockit/internal/schema"
)

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.data, f.err
}

type fakeExtractor struct {
	result *extract.Result
	err    error
}

func (f *fakeExtractor) Extract(data []byte) (*extract.Result, error) {
	return f.result, f.err
}

type fakeRecognizer struct {
	result ocr.Result
	calls  int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, document []byte) ocr.Result {
	f.calls++
	return f.result
}

type fakeInferrer struct {
	fields schema.FieldMap
	calls  int
	text   string
}

func (f *fakeInferrer) Infer(ctx context.Context, text string) schema.FieldMap {
	f.calls++
	f.text = text
	out := make(schema.FieldMap, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out
}

func entityFields(names ...string) schema.FieldMap {
	fields := make(schema.FieldMap, len(names))
	for _, n := range names {
		fields[n] = schema.Field{Type: schema.TypeString, Confidence: 0.9, Description: "test"}
	}
	return fields
}

func TestProcessBytes_DigitalDocument(t *testing.T) {
	rec := &fakeRecognizer{}
	inf := &fakeInferrer{fields: entityFields(
		"roll_no", "application_no", "dob", "name", "email", "phone",
		"address", "category", "gender", "father_name", "mother_name",
		"state", "district", "pincode",
	)}

	e := New(Config{
		Extractor: &fakeExtractor{result: &extract.Result{
			RawText:   "a digital form with a full text layer",
			PageCount: 3,
			IsScanned: false,
		}},
		OCR:      rec,
		Entities: inf,
	})

	res, err := e.ProcessBytes(context.Background(), []byte("pdf"))
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	if rec.calls != 0 {
		t.Errorf("OCR must not run for digital documents, ran %d times", rec.calls)
	}
	if res.OCRConfidence != nil {
		t.Errorf("OCRConfidence should be nil, got %v", *res.OCRConfidence)
	}
	if res.PageCount != 3 || res.IsScanned {
		t.Errorf("extraction metadata lost: %+v", res)
	}
	if len(res.Fields) != 14 {
		t.Errorf("fields: got %d, want 14", len(res.Fields))
	}
	if res.Coverage != 70.0 {
		t.Errorf("coverage: got %v, want 70", res.Coverage)
	}
	if len(res.Issues) != 0 {
		t.Errorf("expected no issues, got %v", res.Issues)
	}
}

func TestProcessBytes_ScannedWithWorkingOCR(t *testing.T) {
	rec := &fakeRecognizer{result: ocr.Result{
		Text:       "Roll No: AB123456 recognized by OCR",
		Confidence: 88,
	}}
	inf := &fakeInferrer{fields: entityFields("name", "dob", "address", "email", "phone")}

	e := New(Config{
		Extractor: &fakeExtractor{result: &extract.Result{
			RawText:   "thin",
			PageCount: 1,
			IsScanned: true,
		}},
		OCR:      rec,
		Entities: inf,
	})

	res, err := e.ProcessBytes(context.Background(), []byte("pdf"))
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	if rec.calls != 1 {
		t.Errorf("OCR calls: got %d, want 1", rec.calls)
	}
	if res.OCRConfidence == nil || *res.OCRConfidence != 88 {
		t.Errorf("OCRConfidence: got %v, want 88", res.OCRConfidence)
	}
	// Entity inference must see the OCR text, not the thin layer.
	if !strings.Contains(inf.text, "recognized by OCR") {
		t.Errorf("inference ran over wrong text: %q", inf.text)
	}
}

func TestProcessBytes_TotalOCRFailureSkipsInference(t *testing.T) {
	rec := &fakeRecognizer{result: ocr.Result{
		Issues: []string{ocr.IssueFailed},
	}}
	inf := &fakeInferrer{fields: entityFields("name")}

	e := New(Config{
		Extractor: &fakeExtractor{result: &extract.Result{
			RawText:   "Roll No: AB123456\nDOB: 1999-05-01",
			PageCount: 1,
			IsScanned: true,
		}},
		OCR:      rec,
		Entities: inf,
	})

	res, err := e.ProcessBytes(context.Background(), []byte("pdf"))
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	if inf.calls != 0 {
		t.Errorf("inference must not run after total OCR failure, ran %d times", inf.calls)
	}
	if res.Issues[0] != ocr.IssueFailed {
		t.Errorf("issue 0: got %q, want %q", res.Issues[0], ocr.IssueFailed)
	}
	// The thin pre-OCR text still yields regex fields.
	if _, ok := res.Fields["roll_no"]; !ok {
		t.Errorf("expected regex fields from pre-OCR text, got %v", res.Fields)
	}
	if res.OCRConfidence == nil || *res.OCRConfidence != 0 {
		t.Errorf("OCRConfidence: got %v, want 0", res.OCRConfidence)
	}
}

func TestProcessBytes_LowConfidenceOCRStillUsed(t *testing.T) {
	rec := &fakeRecognizer{result: ocr.Result{
		Text:       "barely readable",
		Confidence: 30,
		Issues:     []string{ocr.IssueLowConfidence},
	}}
	inf := &fakeInferrer{}

	e := New(Config{
		Extractor: &fakeExtractor{result: &extract.Result{RawText: "", IsScanned: true, PageCount: 1}},
		OCR:       rec,
		Entities:  inf,
	})

	res, err := e.ProcessBytes(context.Background(), []byte("pdf"))
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	if inf.calls != 1 {
		t.Errorf("inference should still run over low-confidence text, ran %d times", inf.calls)
	}
	if inf.text != "barely readable" {
		t.Errorf("inference text: got %q", inf.text)
	}
	if res.Issues[0] != ocr.IssueLowConfidence {
		t.Errorf("issue 0: got %q", res.Issues[0])
	}
}

func TestProcessBytes_NoFieldsPopulatesLines(t *testing.T) {
	e := New(Config{
		Extractor: &fakeExtractor{result: &extract.Result{
			RawText:   "Roll No: AB123456\nlorem ipsum",
			PageCount: 1,
		}},
		Entities: &fakeInferrer{},
	})

	res, err := e.ProcessBytes(context.Background(), []byte("pdf"))
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	if len(res.Fields) == 0 && len(res.Lines) == 0 {
		t.Error("expected free-text lines when no fields at all")
	}
}

func TestProcessBytes_UnreadableDocument(t *testing.T) {
	e := New(Config{
		Extractor: &fakeExtractor{err: extract.ErrUnreadable},
		Entities:  &fakeInferrer{},
	})

	if _, err := e.ProcessBytes(context.Background(), []byte("junk")); !errors.Is(err, extract.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestProcessURL_FetchFailureIsFatal(t *testing.T) {
	wantErr := errors.New("network down")
	e := New(Config{
		Fetcher:   &fakeFetcher{err: wantErr},
		Extractor: &fakeExtractor{result: &extract.Result{}},
		Entities:  &fakeInferrer{},
	})

	if _, err := e.ProcessURL(context.Background(), "http://example.org/form.pdf"); !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestProcessURL_Success(t *testing.T) {
	inf := &fakeInferrer{fields: entityFields("name", "dob", "email", "phone", "address")}
	e := New(Config{
		Fetcher: &fakeFetcher{data: []byte("pdf")},
		Extractor: &fakeExtractor{result: &extract.Result{
			RawText:   "a digital form",
			PageCount: 2,
		}},
		Entities: inf,
	})

	res, err := e.ProcessURL(context.Background(), "http://example.org/form.pdf")
	if err != nil {
		t.Fatalf("ProcessURL failed: %v", err)
	}
	if res.PageCount != 2 {
		t.Errorf("page count: got %d, want 2", res.PageCount)
	}
	if inf.calls != 1 {
		t.Errorf("inference calls: got %d, want 1", inf.calls)
	}
}
