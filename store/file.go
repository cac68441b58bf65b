package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/etnz/patrimony"
)

const ext = ".jsonl"

// File stores the ledger of user u in <Dir>/<u>.jsonl.
//
// A user name may contain slashes, "john/bnp" is stored in <Dir>/john/bnp.jsonl.
type File struct {
	Dir string
	mu  sync.Mutex
}

// NewFile returns a File store rooted at dir.
func NewFile(dir string) *File { return &File{Dir: dir} }

func (s *File) path(user string) (string, error) {
	if user == "" {
		return "", errors.New("empty user name")
	}
	p := filepath.Join(s.Dir, filepath.FromSlash(user)+ext)
	if rel, err := filepath.Rel(s.Dir, p); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid user name %q", user)
	}
	return p, nil
}

// Load reads all transactions of user. A user without a file has an empty ledger.
func (s *File) Load(ctx context.Context, user string) ([]patrimony.Transaction, error) {
	p, err := s.path(user)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", p, err)
	}
	defer f.Close()

	txs, err := patrimony.DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", p, err)
	}
	return txs, nil
}

// Append writes tx at the end of the user file, creating it if needed.
func (s *File) Append(ctx context.Context, user string, tx patrimony.Transaction) (string, error) {
	p, err := s.path(user)
	if err != nil {
		return "", err
	}
	tx, err = prepare(tx)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("could not create directory for ledger %q: %w", p, err)
	}
	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("error opening ledger file %q for writing: %w", p, err)
	}
	if err := patrimony.EncodeTransaction(f, tx); err != nil {
		f.Close()
		return "", err
	}
	return tx.ID, f.Close()
}

// Users lists the users having a ledger file, in lexical order.
func (s *File) Users(ctx context.Context) ([]string, error) {
	var users []string
	err := filepath.WalkDir(s.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ext) {
			return nil
		}
		rel, err := filepath.Rel(s.Dir, p)
		if err != nil {
			return err
		}
		users = append(users, filepath.ToSlash(strings.TrimSuffix(rel, ext)))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return users, err
}
