package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/veilpay/notesync/internal/adapter"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/models"
)

type decryptionService struct {
	indexer adapter.IndexerAdapter
	enc     EncryptionService
	hasher  NoteHasher
	log     *logger.Logger
}

// NewDecryptionService builds the [DecryptionService] that filters the feed
// down to this wallet's notes. enc and hasher are the externally constructed
// decryption capabilities.
func NewDecryptionService(indexer adapter.IndexerAdapter, enc EncryptionService, hasher NoteHasher, log *logger.Logger) DecryptionService {
	return &decryptionService{indexer: indexer, enc: enc, hasher: hasher, log: log}
}

// DecryptBatch implements [DecryptionService]. Each ciphertext is processed
// independently; a failed decryption marks that ciphertext undecryptable and
// never aborts the others. Ciphertexts that do decrypt get their ledger index
// resolved through one batched indexer call, whose result is authoritative
// over any placeholder index the decrypted note carried.
func (d *decryptionService) DecryptBatch(ctx context.Context, ciphertexts []string) ([]models.DecryptOutcome, error) {
	outcomes := make([]models.DecryptOutcome, len(ciphertexts))

	noteKey, err := d.enc.DeriveNoteKey()
	if err != nil {
		return nil, fmt.Errorf("derive note key: %w", err)
	}

	decrypted := 0
	for i, ct := range ciphertexts {
		if strings.TrimSpace(ct) == "" {
			outcomes[i] = models.DecryptOutcome{Status: models.DecryptSkipped, Ciphertext: ct}
			continue
		}

		note, err := d.enc.Decrypt(ct, noteKey, d.hasher)
		if err != nil {
			// Not ours, or malformed. Expected for most feed items.
			outcomes[i] = models.DecryptOutcome{Status: models.DecryptFailed, Ciphertext: ct}
			continue
		}

		outcomes[i] = models.DecryptOutcome{Status: models.DecryptOK, Note: note, Ciphertext: ct}
		decrypted++
	}

	if decrypted == 0 {
		return outcomes, nil
	}

	surviving := make([]string, 0, decrypted)
	positions := make([]int, 0, decrypted)
	for i, o := range outcomes {
		if o.Status == models.DecryptOK {
			surviving = append(surviving, o.Ciphertext)
			positions = append(positions, i)
		}
	}

	indices, err := d.indexer.ResolveIndices(ctx, surviving)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexResolution, err)
	}
	if len(indices) != len(surviving) {
		return nil, fmt.Errorf("%w: got %d indices for %d ciphertexts", ErrIndexResolution, len(indices), len(surviving))
	}

	for j, pos := range positions {
		if outcomes[pos].Note.LedgerIndex != indices[j] {
			outcomes[pos].Note.LedgerIndex = indices[j]
		}
	}

	return outcomes, nil
}
