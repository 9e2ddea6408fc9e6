package dps

import (
	"context"

	armdps "github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/deviceprovisioningservices/armdeviceprovisioningservices"
	"github.com/samber/lo"

	"github.com/azctl/azctl/internal/errs"
	"github.com/azctl/azctl/internal/named"
)

// CertificateUseCaseClient is the interface for certificate use cases.
type CertificateUseCaseClient interface {
	FetchClient
	CertificateClient
}

// CertificateUseCase manages CA certificates uploaded to a provisioning
// service.
type CertificateUseCase struct {
	Client CertificateUseCaseClient
}

func (u *CertificateUseCase) resourceGroup(ctx context.Context, dpsName, resourceGroup string) (string, error) {
	fetch := &FetchUseCase{Client: u.Client}
	return fetch.ResourceGroup(ctx, dpsName, resourceGroup)
}

// List returns the service's uploaded certificates.
func (u *CertificateUseCase) List(ctx context.Context, dpsName, resourceGroup string) ([]*armdps.CertificateResponse, error) {
	resourceGroup, err := u.resourceGroup(ctx, dpsName, resourceGroup)
	if err != nil {
		return nil, err
	}
	return u.Client.ListCertificates(ctx, resourceGroup, dpsName)
}

// Show reads one certificate by name.
func (u *CertificateUseCase) Show(ctx context.Context, dpsName, resourceGroup, certificateName string) (armdps.CertificateResponse, error) {
	resourceGroup, err := u.resourceGroup(ctx, dpsName, resourceGroup)
	if err != nil {
		return armdps.CertificateResponse{}, err
	}
	return u.Client.GetCertificate(ctx, resourceGroup, dpsName, certificateName)
}

// Create uploads a new certificate, rejecting an existing name.
func (u *CertificateUseCase) Create(ctx context.Context, dpsName, resourceGroup, certificateName, certificate string) (armdps.CertificateResponse, error) {
	resourceGroup, err := u.resourceGroup(ctx, dpsName, resourceGroup)
	if err != nil {
		return armdps.CertificateResponse{}, err
	}

	existing, err := u.Client.ListCertificates(ctx, resourceGroup, dpsName)
	if err != nil {
		return armdps.CertificateResponse{}, err
	}
	if named.Exists(existing, certificateName, func(c *armdps.CertificateResponse) string { return lo.FromPtr(c.Name) }) {
		return armdps.CertificateResponse{}, errs.AlreadyExistsf("certificate %q", certificateName)
	}

	cert := armdps.CertificateResponse{
		Properties: &armdps.CertificateProperties{
			Certificate: []byte(certificate),
		},
	}
	return u.Client.CreateOrUpdateCertificate(ctx, resourceGroup, dpsName, certificateName, cert, nil)
}

// Update replaces an existing certificate's content under its entity tag.
func (u *CertificateUseCase) Update(ctx context.Context, dpsName, resourceGroup, certificateName, certificate string) (armdps.CertificateResponse, error) {
	resourceGroup, err := u.resourceGroup(ctx, dpsName, resourceGroup)
	if err != nil {
		return armdps.CertificateResponse{}, err
	}

	current, err := u.Client.GetCertificate(ctx, resourceGroup, dpsName, certificateName)
	if err != nil {
		return armdps.CertificateResponse{}, err
	}

	cert := armdps.CertificateResponse{
		Properties: &armdps.CertificateProperties{
			Certificate: []byte(certificate),
		},
	}
	return u.Client.CreateOrUpdateCertificate(ctx, resourceGroup, dpsName, certificateName, cert, current.Etag)
}

// Delete removes a certificate, fetching the current entity tag when none
// is given.
func (u *CertificateUseCase) Delete(ctx context.Context, dpsName, resourceGroup, certificateName, etag string) error {
	resourceGroup, err := u.resourceGroup(ctx, dpsName, resourceGroup)
	if err != nil {
		return err
	}
	if etag == "" {
		current, err := u.Client.GetCertificate(ctx, resourceGroup, dpsName, certificateName)
		if err != nil {
			return err
		}
		etag = lo.FromPtr(current.Etag)
	}
	return u.Client.DeleteCertificate(ctx, resourceGroup, dpsName, certificateName, etag)
}
