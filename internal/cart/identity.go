package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// GenerateItemID derives the identity of a cart line from the product,
// its store and the selected option/addition sets. Selection order does
// not matter: the same product with the same selections always hashes
// to the same id, which is what add-time merging keys on.
func GenerateItemID(productID, storeID uuid.UUID, options []ItemOption, additions []ItemAddition) string {
	parts := make([]string, 0, 2+len(options)+len(additions))
	parts = append(parts, productID.String(), storeID.String())
	parts = append(parts, sortedSelectionIDs("opt", optionIDs(options))...)
	parts = append(parts, sortedSelectionIDs("add", additionIDs(additions))...)

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16])
}

func optionIDs(options []ItemOption) []uuid.UUID {
	ids := make([]uuid.UUID, len(options))
	for i, opt := range options {
		ids[i] = opt.ID
	}
	return ids
}

func additionIDs(additions []ItemAddition) []uuid.UUID {
	ids := make([]uuid.UUID, len(additions))
	for i, add := range additions {
		ids[i] = add.ID
	}
	return ids
}

func sortedSelectionIDs(prefix string, ids []uuid.UUID) []string {
	tagged := make([]string, len(ids))
	for i, id := range ids {
		tagged[i] = prefix + ":" + id.String()
	}
	sort.Strings(tagged)
	return tagged
}
