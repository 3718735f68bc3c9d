package account

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lojasmm/whatsapp/internal/whatsapp"
)

// accountsFile is the on-disk shape of the static account registry:
//
//	accounts:
//	  - number_id: "1234567890"
//	    token: "EAAG..."
//	    catalog_id: "987"
type accountsFile struct {
	Accounts []struct {
		NumberID  string `yaml:"number_id"`
		Token     string `yaml:"token"`
		CatalogID string `yaml:"catalog_id"`
	} `yaml:"accounts"`
}

// FileResolver resolves accounts from a YAML file loaded once at startup.
type FileResolver struct {
	accounts map[string]whatsapp.Account
}

func NewFileResolver(path string) (*FileResolver, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}

	var file accountsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing accounts file: %w", err)
	}

	accounts := make(map[string]whatsapp.Account, len(file.Accounts))
	for _, a := range file.Accounts {
		if a.NumberID == "" || a.Token == "" {
			return nil, fmt.Errorf("accounts file: entry missing number_id or token")
		}
		accounts[a.NumberID] = whatsapp.Account{
			Token:     a.Token,
			NumberID:  a.NumberID,
			CatalogID: a.CatalogID,
		}
	}

	return &FileResolver{accounts: accounts}, nil
}

func (r *FileResolver) Resolve(numberID string) (*whatsapp.Account, error) {
	account, ok := r.accounts[numberID]
	if !ok {
		return nil, whatsapp.ErrAccountNotFound
	}
	return &account, nil
}
