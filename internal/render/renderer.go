package render

import "context"

type Renderer interface {
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
	RenderBlogList(ctx context.Context, page BlogListPage) ([]byte, error)
	RenderBlogPost(ctx context.Context, page BlogPostPage) ([]byte, error)
	RenderLegalList(ctx context.Context, page LegalListPage) ([]byte, error)
	RenderLegalDoc(ctx context.Context, page LegalDocPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
