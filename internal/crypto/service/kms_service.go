package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
)

// SupportedKMSSchemes lists the keeper URI schemes whose drivers are linked in.
var SupportedKMSSchemes = []string{"awskms", "azurekeyvault", "base64key", "gcpkms", "hashivault"}

type kmsService struct{}

// NewKMSService returns a KMSService that opens gocloud.dev secrets keepers.
func NewKMSService() KMSService {
	return kmsService{}
}

// OpenKeeper rejects unknown schemes before touching any provider so a typo in
// KMS_KEY_URI fails without network calls.
func (kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || !slices.Contains(SupportedKMSSchemes, u.Scheme) {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedKMSScheme, schemeOf(keyURI, u))
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s keeper: %w", u.Scheme, err)
	}
	return keeper, nil
}

func schemeOf(raw string, u *url.URL) string {
	if u == nil {
		return raw
	}
	return u.Scheme
}
