package document

import (
	"mime/multipart"
	"net/http"

	"insynchub/controller"
	"insynchub/dto"
	"insynchub/middleware"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 25 << 20

func DocumentController(router *gin.Engine, svc *services.DocumentService, tokens *services.TokenService) {
	routes := router.Group("/documents", middleware.AccessTokenMiddleware(tokens))
	{
		routes.GET("", func(c *gin.Context) {
			ListDocuments(c, svc)
		})
		routes.POST("", func(c *gin.Context) {
			UploadDocument(c, svc)
		})
		routes.POST("/delete", func(c *gin.Context) {
			DeleteDocuments(c, svc)
		})
	}
}

func ListDocuments(c *gin.Context, svc *services.DocumentService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var q dto.DocumentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		controller.BadRequest(c, err)
		return
	}
	docs, err := svc.ListDocuments(c.Request.Context(), sess, q.Category, q.Search)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func UploadDocument(c *gin.Context, svc *services.DocumentService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if fh.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return
	}

	upload, closeFn, err := OpenUpload(fh)
	if err != nil {
		controller.Error(c, err)
		return
	}
	defer closeFn()

	doc, err := svc.UploadDocument(c.Request.Context(), sess, req.Category, upload)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// OpenUpload turns a multipart file header into a services.FileUpload. The
// caller must call the returned close function.
func OpenUpload(fh *multipart.FileHeader) (services.FileUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return services.FileUpload{}, nil, err
	}
	return services.FileUpload{Name: fh.Filename, Size: fh.Size, Content: f}, func() { f.Close() }, nil
}

func DeleteDocuments(c *gin.Context, svc *services.DocumentService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.DeleteDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	result, err := svc.DeleteDocuments(c.Request.Context(), sess, req.IDs)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
