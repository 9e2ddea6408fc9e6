package hub

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/named"
)

// CertificateUseCaseClient is the interface for certificate use cases.
type CertificateUseCaseClient interface {
	FetchClient
	CertificateClient
}

// CertificateUseCase manages CA certificates uploaded to a hub.
type CertificateUseCase struct {
	Client CertificateUseCaseClient
}

func (u *CertificateUseCase) resourceGroup(ctx context.Context, hubName, resourceGroup string) (string, error) {
	fetch := &FetchUseCase{Client: u.Client}
	return fetch.ResourceGroup(ctx, hubName, resourceGroup)
}

// List returns the hub's uploaded certificates.
func (u *CertificateUseCase) List(ctx context.Context, hubName, resourceGroup string) ([]*armiothub.CertificateDescription, error) {
	resourceGroup, err := u.resourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return nil, err
	}
	return u.Client.ListCertificates(ctx, resourceGroup, hubName)
}

// Show reads one certificate by name.
func (u *CertificateUseCase) Show(ctx context.Context, hubName, resourceGroup, certificateName string) (armiothub.CertificateDescription, error) {
	resourceGroup, err := u.resourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return armiothub.CertificateDescription{}, err
	}
	return u.Client.GetCertificate(ctx, resourceGroup, hubName, certificateName)
}

// Create uploads a new certificate. An existing certificate with the same
// name is rejected rather than silently replaced.
func (u *CertificateUseCase) Create(ctx context.Context, hubName, resourceGroup, certificateName, certificate string) (armiothub.CertificateDescription, error) {
	resourceGroup, err := u.resourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return armiothub.CertificateDescription{}, err
	}

	existing, err := u.Client.ListCertificates(ctx, resourceGroup, hubName)
	if err != nil {
		return armiothub.CertificateDescription{}, err
	}
	if named.Exists(existing, certificateName, certificateKeyName) {
		return armiothub.CertificateDescription{}, errs.AlreadyExistsf("certificate %q", certificateName)
	}

	cert := armiothub.CertificateDescription{
		Properties: &armiothub.CertificateProperties{
			Certificate: lo.ToPtr(certificate),
		},
	}
	return u.Client.CreateOrUpdateCertificate(ctx, resourceGroup, hubName, certificateName, cert, nil)
}

// Update replaces an existing certificate's content under its entity tag.
func (u *CertificateUseCase) Update(ctx context.Context, hubName, resourceGroup, certificateName, certificate string) (armiothub.CertificateDescription, error) {
	resourceGroup, err := u.resourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return armiothub.CertificateDescription{}, err
	}

	current, err := u.Client.GetCertificate(ctx, resourceGroup, hubName, certificateName)
	if err != nil {
		return armiothub.CertificateDescription{}, err
	}

	cert := armiothub.CertificateDescription{
		Properties: &armiothub.CertificateProperties{
			Certificate: lo.ToPtr(certificate),
		},
	}
	return u.Client.CreateOrUpdateCertificate(ctx, resourceGroup, hubName, certificateName, cert, current.Etag)
}

// Delete removes a certificate. When no entity tag is given the current
// one is fetched first.
func (u *CertificateUseCase) Delete(ctx context.Context, hubName, resourceGroup, certificateName, etag string) error {
	resourceGroup, err := u.resourceGroup(ctx, hubName, resourceGroup)
	if err != nil {
		return err
	}
	if etag == "" {
		current, err := u.Client.GetCertificate(ctx, resourceGroup, hubName, certificateName)
		if err != nil {
			return err
		}
		etag = lo.FromPtr(current.Etag)
	}
	return u.Client.DeleteCertificate(ctx, resourceGroup, hubName, certificateName, etag)
}

func certificateKeyName(cert *armiothub.CertificateDescription) string {
	return lo.FromPtr(cert.Name)
}
