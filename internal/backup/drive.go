package backup

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveClient keeps backup files in a google drive folder.
type DriveClient struct {
	service *drive.Service
	// optional, gets read access to every created file
	shareWith string
}

func NewDriveClient(ctx context.Context, credentialsJson []byte, shareWith string) (*DriveClient, error) {
	// https://github.com/googleapis/google-api-go-client/blob/master/drive/v3/drive-gen.go
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}
	return &DriveClient{
		service:   driveService,
		shareWith: shareWith,
	}, nil
}

// EnsureFolder returns the id of the named root folder, creating it if missing.
func (c *DriveClient) EnsureFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, name)
	folders, err := c.service.
		Files.List().
		Q(query).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list folders: %w", err)
	}

	switch len(folders.Files) {
	case 0:
		log.Debugf("backup folder [%s] not found, creating ...", name)
	case 1:
		return folders.Files[0].Id, nil
	default:
		log.Warnf("found %d backup folders named [%s], taking the first one", len(folders.Files), name)
		return folders.Files[0].Id, nil
	}

	created, err := c.service.
		Files.Create(&drive.File{Name: name, MimeType: folderMimeType}).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", name, err)
	}
	if err := c.share(ctx, created.Id); err != nil {
		return created.Id, err
	}
	return created.Id, nil
}

// FileNames returns the names of all files in the folder.
func (c *DriveClient) FileNames(ctx context.Context, folderID string) (map[string]bool, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed = false", folderID, folderMimeType)
	names := make(map[string]bool)
	pageToken := ""
	for {
		call := c.service.
			Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name)").
			PageSize(1000).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list backup files: %w", err)
		}
		for _, f := range list.Files {
			names[f.Name] = true
		}
		if list.NextPageToken == "" {
			return names, nil
		}
		pageToken = list.NextPageToken
	}
}

func (c *DriveClient) Upload(ctx context.Context, folderID, name, mimeType string, content io.Reader) error {
	created, err := c.service.
		Files.Create(&drive.File{
			Name:     name,
			MimeType: mimeType,
			Parents:  []string{folderID},
		}).
		Fields("id, parents").
		Media(content).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("create file %s: %w", name, err)
	}
	log.Tracef("backup file %s saved: %s", name, created.Id)
	return c.share(ctx, created.Id)
}

func (c *DriveClient) share(ctx context.Context, fileID string) error {
	if c.shareWith == "" {
		return nil
	}
	_, err := c.service.Permissions.
		Create(fileID, &drive.Permission{
			EmailAddress: c.shareWith,
			Type:         "user",
			Role:         "reader",
		}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("share %s: %w", fileID, err)
	}
	return nil
}
