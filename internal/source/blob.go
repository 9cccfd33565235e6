package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// blobDownloader is just an interface over [*azblob.Client]
type blobDownloader interface {
	// DownloadStream maps to [azblob.Client.DownloadStream]
	DownloadStream(ctx context.Context, containerName, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// Blob reads files from an Azure Blob Storage container.
type Blob struct {
	client    blobDownloader
	account   string
	container string
	prefix    string
}

// NewBlob returns a Source for container under accountURL, authenticated with cred.
func NewBlob(accountURL, container, prefix string, cred azcore.TokenCredential) (*Blob, error) {
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return newBlob(client, accountURL, container, prefix), nil
}

// NewAnonymousBlob is NewBlob for public containers or SAS-signed account URLs.
func NewAnonymousBlob(accountURL, container, prefix string) (*Blob, error) {
	client, err := azblob.NewClientWithNoCredential(accountURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return newBlob(client, accountURL, container, prefix), nil
}

func newBlob(client blobDownloader, account, container, prefix string) *Blob {
	return &Blob{
		client:    client,
		account:   account,
		container: container,
		prefix:    strings.Trim(prefix, "/"),
	}
}

func (b *Blob) String() string {
	return fmt.Sprintf("azblob:%s/%s/%s", strings.TrimSuffix(b.account, "/"), b.container, b.prefix)
}

// Open streams the blob prefix/name.
func (b *Blob) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	blobName := path.Join(b.prefix, strings.TrimPrefix(name, "/"))
	resp, err := b.client.DownloadStream(ctx, b.container, blobName, nil)
	if err != nil {
		if isBlobNotFound(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, b.container, blobName)
		}
		return nil, fmt.Errorf("downloading %s/%s: %w", b.container, blobName, err)
	}
	return resp.Body, nil
}

func isBlobNotFound(err error) bool {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return true
	}
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
