package services

import (
	"context"
	"io"
	"strings"

	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/models"
	"github.com/username/finwise/backend/src/parsers"
)

// UploadService turns an uploaded bank CSV into stored expenses:
// detect the export format, decode the lines, then hand the candidates
// to the import engine. Line-level parse failures are folded into the
// batch's failed count so the response accounts for every input line.
type UploadService struct {
	importService *ImportService
	categorizer   *parsers.Categorizer
}

func NewUploadService(importService *ImportService) *UploadService {
	return &UploadService{
		importService: importService,
		categorizer:   parsers.NewCategorizer(parsers.DefaultCategoryRules),
	}
}

// ProcessUpload parses and imports one statement file. The caller is
// responsible for enforcing the upload size ceiling before the content
// reaches this method. Returns parsers.ErrUnknownFormat when no bank
// fingerprint matches and ErrBatchTooLarge when the file decodes to
// more candidates than one batch allows.
func (s *UploadService) ProcessUpload(ctx context.Context, userID int64, file io.Reader) (*models.UploadResult, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	format := parsers.DetectFormat(string(content))
	decoder, err := parsers.GetDecoder(format, s.categorizer)
	if err != nil {
		logger.L.Warn("Rejecting upload with unrecognized bank format", "userID", userID)
		return nil, err
	}

	parsed, err := parsers.ParseStatement(strings.NewReader(string(content)), decoder)
	if err != nil {
		return nil, err
	}

	source := "bank_import_" + string(format)
	summary, err := s.importService.ImportTransactions(ctx, userID, parsed.Candidates, source)
	if err != nil {
		return nil, err
	}

	// Lines the decoder could not read count as failures of the batch.
	summary.Failed += parsed.Failed
	summary.Total += parsed.Failed

	return &models.UploadResult{
		ImportSummary: summary,
		BankFormat:    string(format),
	}, nil
}
