package pkg

import (
	cryptoRand "crypto/rand"
	"fmt"
	"math/big"
)

var aliasAdjectives = []string{
	"Silent", "Curious", "Hidden", "Lost", "Brave", "Witty", "Calm",
}

var aliasNouns = []string{
	"Fox", "Crow", "Leaf", "Wolf", "Tiger", "Owl", "River",
}

const handleAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func pick(list []string) string {
	i, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return list[0]
	}
	return list[i.Int64()]
}

// GenerateAlias returns a fresh per-post pseudonym, e.g. "SilentFox417".
// Aliases are independent across posts by the same author.
func GenerateAlias() string {
	digits, err := RandDigits(3)
	if err != nil {
		digits = "000"
	}
	return pick(aliasAdjectives) + pick(aliasNouns) + digits
}

// GenerateHandle returns the stable pseudonymous account name, "user_" plus
// eight lowercase alphanumerics.
func GenerateHandle() string {
	b := make([]byte, 8)
	for i := range b {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(int64(len(handleAlphabet))))
		if err != nil {
			x = big.NewInt(0)
		}
		b[i] = handleAlphabet[x.Int64()]
	}
	return fmt.Sprintf("user_%s", b)
}
