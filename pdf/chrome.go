package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Chrome's paper size is given in inches. The layout is in CSS pixels but a
// document unit is one PDF point, so the page is printed at 72 units per inch
// and the content scaled up to fill it.
const (
	cssPixelsPerInch = 96.0
	pointsPerInch    = 72.0
)

// paperSize returns the paper in inches and the print scale for doc.
func paperSize(doc Document) (width, height, scale float64) {
	return float64(doc.Width) / pointsPerInch, float64(doc.Height) / pointsPerInch, cssPixelsPerInch / pointsPerInch
}

var pageTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
@page { margin: 0; }
html, body { margin: 0; padding: 0; }
.page { position: relative; width: {{.Width}}px; height: {{.Height}}px; overflow: hidden; }
.page img { position: absolute; display: block; }
.line { position: absolute; left: 0; right: 0; text-align: center; line-height: 1; white-space: nowrap;
        font-family: Helvetica, Arial, sans-serif; }
</style>
</head>
<body>
<div class="page">
<img src="{{.Background.Src}}" style="left:0;bottom:0;width:{{.Width}}px;height:{{.Height}}px">
{{- range .Images}}
<img src="{{.Src}}" style="left:{{.X}}px;bottom:{{.Y}}px;width:{{.Width}}px;height:{{.Height}}px">
{{- end}}
{{- range .Texts}}
<div class="line" style="bottom:{{.Bottom}}%;font-size:{{.Size}}px;font-weight:{{.Weight}};color:{{.Color}}">{{.Content}}</div>
{{- end}}
</div>
</body>
</html>`))

type htmlImage struct {
	Src                 template.URL
	X, Y, Width, Height string
}

type htmlText struct {
	Content string
	Bottom  string
	Size    string
	Weight  int
	Color   template.CSS
}

type htmlPage struct {
	Width, Height int
	Background    htmlImage
	Images        []htmlImage
	Texts         []htmlText
}

func num(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func toHTMLImage(img Image) htmlImage {
	src := "data:" + mimeType(img.Format) + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	return htmlImage{
		Src:    template.URL(src),
		X:      num(img.X),
		Y:      num(img.Y),
		Width:  num(img.Width),
		Height: num(img.Height),
	}
}

func cssColor(c Color) template.CSS {
	return template.CSS(fmt.Sprintf("rgb(%d,%d,%d)", int(c.R*255+0.5), int(c.G*255+0.5), int(c.B*255+0.5)))
}

// RenderHTML lays the document out as a fixed-size HTML page. Text centering
// is left to the browser, which measures the glyph run at the given size.
func RenderHTML(doc Document) (string, error) {
	p := htmlPage{
		Width:      doc.Width,
		Height:     doc.Height,
		Background: toHTMLImage(doc.Background),
	}
	for _, img := range doc.Images {
		p.Images = append(p.Images, toHTMLImage(img))
	}
	for _, t := range doc.Texts {
		weight := 400
		if t.Weight == Bold {
			weight = 700
		}
		p.Texts = append(p.Texts, htmlText{
			Content: t.Content,
			Bottom:  num(t.Y * 100),
			Size:    num(t.Size),
			Weight:  weight,
			Color:   cssColor(t.Color),
		})
	}

	var out bytes.Buffer
	if err := pageTemplate.Execute(&out, p); err != nil {
		return "", err
	}
	return out.String(), nil
}

// ChromeComposer prints documents with a headless Chrome.
type ChromeComposer struct {
	execPath string
	timeout  time.Duration
}

// NewChromeComposer uses the Chrome at execPath, or the one chromedp finds on
// PATH when execPath is empty.
func NewChromeComposer(execPath string, timeout time.Duration) *ChromeComposer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeComposer{execPath: execPath, timeout: timeout}
}

func (c *ChromeComposer) Compose(ctx context.Context, doc Document) ([]byte, error) {
	htmlContent, err := RenderHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.DisableGPU, chromedp.NoSandbox)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdfBuffer []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.Evaluate(`Promise.all(Array.from(document.images).map(i => i.decode()))`, nil,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams { return p.WithAwaitPromise(true) }),
		chromedp.ActionFunc(func(ctx context.Context) error {
			width, height, scale := paperSize(doc)
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithScale(scale).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
