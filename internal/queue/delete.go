package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inkwell-ai/studygraph/backend/internal/storage"
	"github.com/inkwell-ai/studygraph/backend/pkg/graphstore"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProcessDeleteMessage removes the stored file and the mirrored graph of a
// deleted document.
func ProcessDeleteMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	mirror *graphstore.Store,
	msg string,
) error {
	data := new(DeleteDocumentMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("invalid delete message: %w", err)
	}

	if data.StorageKey != "" && s3Client != nil {
		if err := storage.DeleteFile(ctx, s3Client, data.StorageKey); err != nil {
			return err
		}
	}

	if data.GraphID != "" && mirror.Enabled() {
		if err := mirror.DeleteGraph(ctx, data.GraphID); err != nil {
			logger.Warn("Graph mirror cleanup failed", "graph_id", data.GraphID, "err", err)
		}
	}

	logger.Info("Document artifacts deleted", "document_id", data.DocumentID)
	return nil
}
