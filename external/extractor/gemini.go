package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/foxseedlab/kasirsuara/internal/extractor"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey        string
	Model         string
	AllowPurchase bool
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiExtractor struct {
	models        contentGenerator
	model         string
	allowPurchase bool
}

func NewGeminiExtractor(ctx context.Context, cfg GeminiConfig) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiExtractor(client.Models, cfg), nil
}

func newGeminiExtractor(models contentGenerator, cfg GeminiConfig) *GeminiExtractor {
	return &GeminiExtractor{
		models:        models,
		model:         cfg.Model,
		allowPurchase: cfg.AllowPurchase,
	}
}

func (g *GeminiExtractor) Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.Draft, error) {
	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(buildUserPrompt(req), genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(buildSystemPrompt(g.allowPurchase), genai.RoleUser),
			Temperature:       genai.Ptr[float32](0),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    draftSchema(g.allowPurchase),
		})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	raw := resp.Text()
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty response from model", extractor.ErrMalformedOutput)
	}
	draft, err := parseDraft(raw, req.Catalog)
	if err != nil {
		slog.Warn("gemini returned malformed draft", "error", err, "raw", raw)
		return nil, err
	}
	return draft, nil
}

func buildSystemPrompt(allowPurchase bool) string {
	var b strings.Builder
	b.WriteString("Kamu adalah asisten kasir untuk UMKM di Indonesia.\n")
	b.WriteString("Tugasmu mengubah kalimat penjual menjadi draf transaksi dalam JSON.\n\n")
	b.WriteString("Aturan:\n")
	if allowPurchase {
		b.WriteString("- Tentukan transaction_type: \"sale\" bila penjual menjual, \"purchase\" bila penjual membeli stok dari pemasok.\n")
		b.WriteString("- Untuk purchase, isi supplier_id bila disebut; jika tidak, isi null.\n")
	} else {
		b.WriteString("- Semua transaksi adalah \"sale\". supplier_id selalu null.\n")
	}
	b.WriteString("- Cocokkan setiap barang yang disebut dengan daftar produk dan pakai product_id dari daftar itu.\n")
	b.WriteString("- Jangan mengarang produk yang tidak ada di daftar.\n")
	b.WriteString("- quantity adalah bilangan bulat positif.\n")
	b.WriteString("- unit_price memakai harga di daftar kecuali penjual menyebut harga lain.\n")
	b.WriteString("- Kembalikan JSON mentah saja tanpa Markdown.\n")
	return b.String()
}

func buildUserPrompt(req domain.ExtractionRequest) string {
	var b strings.Builder
	b.WriteString("Daftar produk:\n")
	if len(req.Catalog) == 0 {
		b.WriteString("(kosong)\n")
	}
	for _, p := range req.Catalog {
		fmt.Fprintf(&b, "- [%d] %s (Rp %s)\n", p.ProductID, p.Name, p.Price.String())
	}
	fmt.Fprintf(&b, "\nKalimat transkrip dari penjual: %q\n", req.Transcript)
	return b.String()
}

func draftSchema(allowPurchase bool) *genai.Schema {
	types := []string{string(domain.TransactionTypeSale)}
	if allowPurchase {
		types = append(types, string(domain.TransactionTypePurchase))
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"transaction_type": {Type: genai.TypeString, Enum: types},
			"supplier_id":      {Type: genai.TypeInteger, Nullable: genai.Ptr(true)},
			"items": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"product_id": {Type: genai.TypeInteger},
						"name":       {Type: genai.TypeString},
						"quantity":   {Type: genai.TypeInteger},
						"unit_price": {Type: genai.TypeNumber},
					},
					Required: []string{"product_id", "name", "quantity", "unit_price"},
				},
			},
		},
		Required: []string{"transaction_type", "items"},
	}
}

type rawDraft struct {
	TransactionType string         `json:"transaction_type"`
	SupplierID      *float64       `json:"supplier_id"`
	Items           []rawDraftItem `json:"items"`
}

type rawDraftItem struct {
	ProductID float64          `json:"product_id"`
	Name      string           `json:"name"`
	Quantity  float64          `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// parseDraft decodes model output. Business validation happens later in
// the pipeline; this only rejects output that cannot form a draft.
func parseDraft(raw string, catalog []domain.CatalogEntry) (*domain.Draft, error) {
	var rd rawDraft
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &rd); err != nil {
		return nil, fmt.Errorf("%w: %v", extractor.ErrMalformedOutput, err)
	}

	prices := make(map[int64]decimal.Decimal, len(catalog))
	for _, p := range catalog {
		prices[p.ProductID] = p.Price
	}

	draft := &domain.Draft{
		TransactionType: domain.TransactionType(strings.ToLower(strings.TrimSpace(rd.TransactionType))),
		Items:           make([]domain.DraftItem, 0, len(rd.Items)),
	}
	if rd.SupplierID != nil {
		id, ok := wholeNumber(*rd.SupplierID)
		if !ok {
			return nil, fmt.Errorf("%w: supplier_id %v is not an integer", extractor.ErrMalformedOutput, *rd.SupplierID)
		}
		draft.SupplierID = &id
	}
	for i, it := range rd.Items {
		productID, ok := wholeNumber(it.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: items[%d].product_id %v is not an integer", extractor.ErrMalformedOutput, i, it.ProductID)
		}
		qty, ok := wholeNumber(it.Quantity)
		if !ok {
			return nil, fmt.Errorf("%w: items[%d].quantity %v is not an integer", extractor.ErrMalformedOutput, i, it.Quantity)
		}
		item := domain.DraftItem{
			ProductID: productID,
			Name:      strings.TrimSpace(it.Name),
			Quantity:  int(qty),
		}
		switch {
		case it.UnitPrice != nil:
			item.UnitPrice = *it.UnitPrice
		default:
			item.UnitPrice = prices[productID]
		}
		draft.Items = append(draft.Items, item)
	}
	return draft, nil
}

func wholeNumber(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int64(f), true
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = s[start : end+1]
		}
	}
	return s
}

var _ extractor.Extractor = (*GeminiExtractor)(nil)
