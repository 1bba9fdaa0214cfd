package hashira

import "context"

// Component is a unit of UI produced by a page handler. The concrete
// type is defined by the rendering engine plugged into the app; the
// framework never inspects it.
type Component any

// Renderer turns a component tree into HTML. The rendering engine is
// an external collaborator: apps provide one at build time and page
// handlers reach it through RequestContext.Render.
type Renderer interface {
	RenderToHTML(ctx context.Context, c Component) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, c Component) (string, error)

// RenderToHTML implements Renderer.
func (f RendererFunc) RenderToHTML(ctx context.Context, c Component) (string, error) {
	return f(ctx, c)
}
