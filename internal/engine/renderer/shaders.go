package renderer

// wallVertexShader transforms wall vertices into clip space.
const wallVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uViewProj;

out vec3 vNormal;
out vec2 vTexCoord;
out vec3 vWorldPos;

void main() {
	vNormal = aNormal;
	vTexCoord = aTexCoord;
	vWorldPos = aPosition;
	gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

// wallFragmentShader applies the wall texture with simple directional light and fog.
const wallFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec2 vTexCoord;
in vec3 vWorldPos;

uniform sampler2D uTexture;
uniform vec3 uLightDir;
uniform vec3 uEye;
uniform float uFogFar;
uniform vec3 uFogColor;

out vec4 FragColor;

void main() {
	vec4 tex = texture(uTexture, vTexCoord);
	float diffuse = max(dot(normalize(vNormal), -normalize(uLightDir)), 0.0);
	vec3 color = tex.rgb * (0.45 + 0.55 * diffuse);

	float fog = clamp(length(vWorldPos - uEye) / uFogFar, 0.0, 1.0);
	FragColor = vec4(mix(color, uFogColor, fog * fog), tex.a);
}
`

// lineVertexShader passes per-vertex colour through for debug lines.
const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aColor;

uniform mat4 uViewProj;

out vec3 vColor;

void main() {
	vColor = aColor;
	gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

in vec3 vColor;

out vec4 FragColor;

void main() {
	FragColor = vec4(vColor, 1.0);
}
`
