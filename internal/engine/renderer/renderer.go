// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/sectorview/internal/engine/model"
	"github.com/Faultbox/sectorview/internal/engine/shader"
	"github.com/Faultbox/sectorview/internal/engine/texture"
	"github.com/Faultbox/sectorview/internal/logger"
	"github.com/Faultbox/sectorview/internal/world"
	"github.com/Faultbox/sectorview/pkg/math"
)

// MaxTextureSize caps uploaded texture dimensions.
const MaxTextureSize = 1024

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	FOV    float32 // Vertical field of view in degrees
	Near   float32
	Far    float32
}

// TextureSource resolves texture references to images.
type TextureSource interface {
	Load(ref string) (image.Image, error)
}

// Stats describes what the last Upload sent to the GPU.
type Stats struct {
	Walls           int
	Triangles       int
	Textures        int
	MissingTextures int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	// Wall shader
	program *shader.Program

	// Debug overlays: sector outlines and the selected wall
	Outlines  *LineLayer
	Selection *LineLayer

	// Wall mesh
	vao      uint32
	vbo      uint32
	ebo      uint32
	groups   []model.TextureGroup
	textures map[string]uint32
	stats    Stats

	clearColor [3]float32
	lightDir   [3]float32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		log:        logger.Named("renderer"),
		textures:   make(map[string]uint32),
		clearColor: [3]float32{0.1, 0.1, 0.15}, // Dark blue-gray background
		lightDir:   [3]float32{-0.4, -1.0, -0.3},
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], 1.0)

	program, err := shader.New(wallVertexShader, wallFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("wall shader: %w", err)
	}
	r.program = program

	if r.Outlines, err = newLineLayer(); err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	if r.Selection, err = newLineLayer(); err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.clearWalls()
	for _, l := range []*LineLayer{r.Outlines, r.Selection} {
		if l != nil {
			l.delete()
		}
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Projection returns the perspective matrix for the current viewport.
func (r *Renderer) Projection() math.Mat4 {
	aspect := float32(1)
	if r.config.Height > 0 {
		aspect = float32(r.config.Width) / float32(r.config.Height)
	}
	return math.Perspective(math.Radians(r.config.FOV), aspect, r.config.Near, r.config.Far)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {}

// Stats returns statistics for the uploaded walls.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Upload replaces the wall geometry with boxes built from prims.
// Textures that cannot be loaded are drawn in a flat colour.
func (r *Renderer) Upload(prims []world.WallPrimitive, src TextureSource, opts model.BuildOptions) error {
	r.clearWalls()

	mesh := model.BuildWallMesh(prims, opts)
	r.groups = mesh.Groups
	r.stats = Stats{Walls: len(prims), Triangles: len(mesh.Indices) / 3}

	for _, g := range mesh.Groups {
		img, err := r.loadTexture(src, g.Texture)
		if err != nil {
			r.stats.MissingTextures++
			r.log.Warn("texture unavailable, using flat colour",
				zap.String("texture", g.Texture), zap.Error(err))
			img = texture.Solid(flatColor(g.Texture))
		}
		r.textures[g.Texture] = uploadTexture(texture.Fit(texture.ToRGBA(img), MaxTextureSize))
	}
	r.stats.Textures = len(r.textures)

	if len(mesh.Vertices) == 0 {
		return nil
	}
	r.uploadMesh(mesh.Vertices, mesh.Indices)

	r.log.Info("walls uploaded",
		zap.Int("walls", r.stats.Walls),
		zap.Int("triangles", r.stats.Triangles),
		zap.Int("textures", r.stats.Textures),
		zap.Int("missing_textures", r.stats.MissingTextures))
	return nil
}

func (r *Renderer) loadTexture(src TextureSource, ref string) (image.Image, error) {
	if ref == "" {
		return nil, fmt.Errorf("wall has no texture")
	}
	if src == nil {
		return nil, fmt.Errorf("no texture source")
	}
	return src.Load(ref)
}

// flatColor picks a stable mid-tone colour for a texture reference.
func flatColor(ref string) color.RGBA {
	if ref == "" {
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
	h := fnv.New32a()
	h.Write([]byte(ref))
	sum := h.Sum32()
	return color.RGBA{
		R: 80 + uint8(sum%128),
		G: 80 + uint8((sum>>8)%128),
		B: 80 + uint8((sum>>16)%128),
		A: 255,
	}
}

func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return texID
}

func (r *Renderer) uploadMesh(vertices []model.Vertex, indices []uint32) {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
}

// Draw renders the walls, then the outline layer when showOutlines is set,
// then the selection.
func (r *Renderer) Draw(view math.Mat4, eye math.Vec3, showOutlines bool) {
	viewProj := r.Projection().Mul(view)
	r.drawWalls(viewProj, eye)
	if showOutlines {
		r.Outlines.Draw(viewProj)
	}
	r.Selection.Draw(viewProj)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, width, height
}

func (r *Renderer) drawWalls(viewProj math.Mat4, eye math.Vec3) {
	if r.vao == 0 {
		return
	}

	p := r.program
	p.Use()
	gl.UniformMatrix4fv(p.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.Uniform3f(p.Uniform("uLightDir"), r.lightDir[0], r.lightDir[1], r.lightDir[2])
	gl.Uniform3f(p.Uniform("uEye"), eye.X, eye.Y, eye.Z)
	gl.Uniform1f(p.Uniform("uFogFar"), r.config.Far)
	gl.Uniform3f(p.Uniform("uFogColor"), r.clearColor[0], r.clearColor[1], r.clearColor[2])

	gl.BindVertexArray(r.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(p.Uniform("uTexture"), 0)

	for _, group := range r.groups {
		gl.BindTexture(gl.TEXTURE_2D, r.textures[group.Texture])
		gl.DrawElementsWithOffset(gl.TRIANGLES, group.IndexCount, gl.UNSIGNED_INT, uintptr(group.StartIndex*4))
	}

	gl.BindVertexArray(0)
}

func (r *Renderer) clearWalls() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	for _, tex := range r.textures {
		if tex != 0 {
			gl.DeleteTextures(1, &tex)
		}
	}
	r.textures = make(map[string]uint32)
	r.groups = nil
}
