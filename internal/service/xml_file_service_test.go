package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"xml-uploader/internal/models"
	"xml-uploader/internal/repository"
	"xml-uploader/internal/service/mocks"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// multipartHeader 构造一个真实的 multipart.FileHeader
func multipartHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestXMLFileService_Upload(t *testing.T) {
	type mockSetup func(t *testing.T, store *mocks.MockXMLFileStore)

	created := func(t *testing.T, store *mocks.MockXMLFileStore, wantContent, wantName string) {
		store.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f *models.XMLFile) error {
				assert.Equal(t, wantContent, f.Content)
				require.NotNil(t, f.FileName)
				assert.Equal(t, wantName, *f.FileName)
				f.ID = 7
				f.UploadedAt = time.Now()
				return nil
			})
	}

	tests := []struct {
		name        string
		input       func(t *testing.T) UploadCandidate
		setup       mockSetup
		wantName    string
		wantErr     bool
		errContains string
	}{
		{
			name: "multipart file",
			input: func(t *testing.T) UploadCandidate {
				return MultipartCandidate{Header: multipartHeader(t, "orders.xml", []byte("<orders/>"))}
			},
			setup:    func(t *testing.T, store *mocks.MockXMLFileStore) { created(t, store, "<orders/>", "orders.xml") },
			wantName: "orders.xml",
		},
		{
			name: "multipart file with display name",
			input: func(t *testing.T) UploadCandidate {
				return MultipartCandidate{Header: multipartHeader(t, "orders.xml", []byte("<orders/>")), FileName: "q1-orders.xml"}
			},
			setup:    func(t *testing.T, store *mocks.MockXMLFileStore) { created(t, store, "<orders/>", "q1-orders.xml") },
			wantName: "q1-orders.xml",
		},
		{
			name: "multipart display name without xml extension",
			input: func(t *testing.T) UploadCandidate {
				return MultipartCandidate{Header: multipartHeader(t, "orders.xml", []byte("<orders/>")), FileName: "orders.txt"}
			},
			wantErr:     true,
			errContains: "only XML files are allowed",
		},
		{
			name: "multipart non-xml name",
			input: func(t *testing.T) UploadCandidate {
				return MultipartCandidate{Header: multipartHeader(t, "data.txt", []byte("<orders/>"))}
			},
			wantErr:     true,
			errContains: "only XML files are allowed",
		},
		{
			name: "multipart oversize",
			input: func(t *testing.T) UploadCandidate {
				return MultipartCandidate{Header: multipartHeader(t, "big.xml", []byte("<r>"+strings.Repeat("a", 100)+"</r>"))}
			},
			wantErr:     true,
			errContains: "exceeds limit",
		},
		{
			name: "raw body without name",
			input: func(t *testing.T) UploadCandidate {
				return RawBodyCandidate{Body: strings.NewReader("<root/>")}
			},
			setup:    func(t *testing.T, store *mocks.MockXMLFileStore) { created(t, store, "<root/>", "unnamed.xml") },
			wantName: "unnamed.xml",
		},
		{
			name: "raw body named",
			input: func(t *testing.T) UploadCandidate {
				return RawBodyCandidate{Body: strings.NewReader("<root/>"), FileName: "feed.xml"}
			},
			setup:    func(t *testing.T, store *mocks.MockXMLFileStore) { created(t, store, "<root/>", "feed.xml") },
			wantName: "feed.xml",
		},
		{
			name: "raw body oversize",
			input: func(t *testing.T) UploadCandidate {
				return RawBodyCandidate{Body: strings.NewReader("<r>" + strings.Repeat("a", 100) + "</r>")}
			},
			wantErr:     true,
			errContains: "exceeds limit",
		},
		{
			name: "raw body read failure",
			input: func(t *testing.T) UploadCandidate {
				return RawBodyCandidate{Body: failingReader{}}
			},
			wantErr:     true,
			errContains: "error reading XML content: connection reset",
		},
		{
			name: "fields with content",
			input: func(t *testing.T) UploadCandidate {
				content, name := "<a>1</a>", "a.xml"
				return FieldsCandidate{Content: &content, FileName: &name}
			},
			setup:    func(t *testing.T, store *mocks.MockXMLFileStore) { created(t, store, "<a>1</a>", "a.xml") },
			wantName: "a.xml",
		},
		{
			name: "fields without content",
			input: func(t *testing.T) UploadCandidate {
				name := "a.xml"
				return FieldsCandidate{FileName: &name}
			},
			wantErr:     true,
			errContains: "file/content is required",
		},
		{
			name: "malformed",
			input: func(t *testing.T) UploadCandidate {
				return RawBodyCandidate{Body: strings.NewReader("<a><b></a>")}
			},
			wantErr:     true,
			errContains: "invalid XML format",
		},
		{
			name: "nil input",
			input: func(t *testing.T) UploadCandidate {
				return nil
			},
			wantErr:     true,
			errContains: "file/content is required",
		},
		{
			name: "store failure",
			input: func(t *testing.T) UploadCandidate {
				return RawBodyCandidate{Body: strings.NewReader("<root/>")}
			},
			setup: func(t *testing.T, store *mocks.MockXMLFileStore) {
				store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantErr:     true,
			errContains: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockXMLFileStore(ctrl)
			if tt.setup != nil {
				tt.setup(t, store)
			}

			svc := NewXMLFileService(store, NewXMLValidator(64, "", false), newTestLogger())
			file, err := svc.Upload(context.Background(), tt.input(t))

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, file)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, uint(7), file.ID)
			assert.Equal(t, tt.wantName, *file.FileName)
		})
	}
}

func TestXMLFileService_ErrorKinds(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockXMLFileStore(ctrl)
	svc := NewXMLFileService(store, NewXMLValidator(0, "", false), newTestLogger())

	_, err := svc.Upload(context.Background(), RawBodyCandidate{Body: failingReader{}})
	var readErr *ReadError
	assert.ErrorAs(t, err, &readErr)

	_, err = svc.Upload(context.Background(), RawBodyCandidate{Body: strings.NewReader("")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonMalformed, verr.Reason)
	assert.Equal(t, "malformed", verr.Reason.String())
}

func TestXMLFileService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockXMLFileStore(ctrl)
	svc := NewXMLFileService(store, NewXMLValidator(0, "", false), newTestLogger())
	ctx := context.Background()

	name := "a.xml"
	store.EXPECT().GetByID(gomock.Any(), uint(1)).Return(&models.XMLFile{ID: 1, Content: "<a/>", FileName: &name}, nil)
	store.EXPECT().GetByID(gomock.Any(), uint(2)).Return(nil, repository.ErrNotFound)
	store.EXPECT().GetByID(gomock.Any(), uint(3)).Return(nil, errors.New("db closed"))

	file, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "<a/>", file.Content)

	_, err = svc.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrXMLFileNotFound)

	_, err = svc.Get(ctx, 3)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrXMLFileNotFound)
}

func TestXMLFileService_ListAndTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockXMLFileStore(ctrl)
	svc := NewXMLFileService(store, NewXMLValidator(0, "", false), newTestLogger())
	ctx := context.Background()

	store.EXPECT().List(gomock.Any()).Return([]models.XMLFile{{ID: 3}, {ID: 2}, {ID: 1}}, nil)
	store.EXPECT().Count(gomock.Any()).Return(int64(3), nil)

	files, total, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, uint(3), files[0].ID)

	n, err := svc.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	store.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom"))
	_, _, err = svc.List(ctx)
	assert.Error(t, err)
}
