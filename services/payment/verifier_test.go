package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func referenceSignature(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

func TestVerifySignature_AcceptsGatewaySignature(t *testing.T) {
	sig := referenceSignature("order_ABC|pay_XYZ", "s3cr3t")
	assert.Equal(t, sig, ExpectedSignature("order_ABC", "pay_XYZ", "s3cr3t"))
	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature("order_ABC", "pay_XYZ", sig, "s3cr3t"))
}

func TestVerifySignature_RejectsEverySingleCharMutation(t *testing.T) {
	sig := ExpectedSignature("order_ABC", "pay_XYZ", "s3cr3t")
	for i := 0; i < len(sig); i++ {
		b := []byte(sig)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		assert.False(t, VerifySignature("order_ABC", "pay_XYZ", string(b), "s3cr3t"), "mutation at %d accepted", i)
	}
}

func TestVerifySignature_Rejects(t *testing.T) {
	sig := ExpectedSignature("order_ABC", "pay_XYZ", "s3cr3t")

	cases := map[string][4]string{
		"wrong secret":      {"order_ABC", "pay_XYZ", sig, "other"},
		"swapped ids":       {"pay_XYZ", "order_ABC", sig, "s3cr3t"},
		"uppercase hex":     {"order_ABC", "pay_XYZ", "A" + sig[1:], "s3cr3t"},
		"truncated":         {"order_ABC", "pay_XYZ", sig[:63], "s3cr3t"},
		"empty signature":   {"order_ABC", "pay_XYZ", "", "s3cr3t"},
		"empty order":       {"", "pay_XYZ", sig, "s3cr3t"},
		"empty payment":     {"order_ABC", "", sig, "s3cr3t"},
		"empty secret":      {"order_ABC", "pay_XYZ", ExpectedSignature("order_ABC", "pay_XYZ", ""), ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, VerifySignature(c[0], c[1], c[2], c[3]))
		})
	}
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(150000), ToMinorUnits(1500))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(10), ToMinorUnits(0.1))
}
