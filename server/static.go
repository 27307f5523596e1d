package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const indexFile = "index.html"

// IndexHandler は静的ファイルのルートから index.html を返します。
func IndexHandler(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		serveStaticFile(c, staticDir, indexFile)
	}
}

// StaticFallback はどのルートにも一致しないGET/HEADリクエストを静的ファイルとして扱う
func StaticFallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}
		serveStaticFile(c, staticDir, c.Request.URL.Path)
	}
}

// serveStaticFile は root の外を参照できないようにパスを正規化してから配信します。
// ディレクトリの一覧は返さない
func serveStaticFile(c *gin.Context, root, name string) {
	clean := path.Clean("/" + name)
	full := filepath.Join(root, filepath.FromSlash(clean))

	f, err := os.Open(full)
	if err != nil {
		notFound(c)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		notFound(c)
		return
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"status": "not_found",
		"error":  "file not found",
	})
}
