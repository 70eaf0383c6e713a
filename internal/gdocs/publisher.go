// Package gdocs publishes a generated newsletter as a Google Doc through a
// service account.
package gdocs

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/imobireport/newsroom-backend/internal/logger"
)

const defaultTitle = "Imobi Report – Resumos"

type Publisher interface {
	// Publish creates a titled document with the newsletter text and
	// returns its edit URL.
	Publish(ctx context.Context, content string) (string, error)
}

type publisher struct {
	log      *logger.Logger
	docs     *docs.Service
	drive    *drive.Service
	folderID string
	title    string
	now      func() time.Time
}

// NewPublisher builds the Docs and Drive clients from the service account
// JSON in GOOGLE_SERVICE_ACCOUNT. GDRIVE_FOLDER_ID optionally parents the
// created documents, GDOC_TITLE overrides the title prefix.
func NewPublisher(ctx context.Context, log *logger.Logger) (Publisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	raw := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT"))
	if raw == "" {
		return nil, fmt.Errorf("missing GOOGLE_SERVICE_ACCOUNT")
	}

	creds := option.WithCredentialsJSON([]byte(raw))
	scopes := option.WithScopes(docs.DocumentsScope, drive.DriveFileScope)

	docsSvc, err := docs.NewService(ctx, creds, scopes)
	if err != nil {
		return nil, fmt.Errorf("criar client do Docs: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, creds, scopes)
	if err != nil {
		return nil, fmt.Errorf("criar client do Drive: %w", err)
	}

	title := strings.TrimSpace(os.Getenv("GDOC_TITLE"))
	if title == "" {
		title = defaultTitle
	}

	return &publisher{
		log:      log.With("service", "GoogleDocsPublisher"),
		docs:     docsSvc,
		drive:    driveSvc,
		folderID: strings.TrimSpace(os.Getenv("GDRIVE_FOLDER_ID")),
		title:    title,
		now:      time.Now,
	}, nil
}

func (p *publisher) Publish(ctx context.Context, content string) (string, error) {
	title := fmt.Sprintf("%s — %s", p.title, p.now().Format("2006-01-02 15.04"))

	meta := &drive.File{
		Name:     title,
		MimeType: "application/vnd.google-apps.document",
	}
	if p.folderID != "" {
		meta.Parents = []string{p.folderID}
	}

	created, err := p.drive.Files.Create(meta).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("criar documento: %w", err)
	}

	if err := p.writeContent(ctx, created.Id, content); err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://docs.google.com/document/d/%s/edit", created.Id)
	p.log.Info("newsletter publicada", "doc_id", created.Id)
	return url, nil
}

func (p *publisher) writeContent(ctx context.Context, docID, content string) error {
	header := fmt.Sprintf("Gerado em: %s\n%s\n\n", p.now().Format("02/01/2006 15:04"), strings.Repeat("=", 80))
	full := header + content
	if !strings.HasSuffix(full, "\n") {
		full += "\n"
	}

	_, err := p.docs.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: 1},
				Text:     full,
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("escrever conteúdo no documento: %w", err)
	}
	return nil
}
