package ppu

// renderFrame rebuilds the whole visible frame into p.canvas. Real
// hardware paints one pixel per dot; this core renders the full frame
// in one shot at the VBLANK boundary (spec.md §4.9 "per-frame render
// instead of per-dot") since nothing observes mid-frame pixel state.
func (p *PPU) renderFrame() {
	var opaque [NES_RES_HEIGHT][NES_RES_WIDTH]bool

	if p.bgShow() {
		p.renderBackground(&opaque)
	} else {
		backdrop := p.palette[0]
		for y := 0; y < NES_RES_HEIGHT; y++ {
			for x := 0; x < NES_RES_WIDTH; x++ {
				p.canvas[y][x] = backdrop
			}
		}
	}

	if p.sprShow() {
		p.renderSprites(&opaque)
	}
}

// renderBackground fills p.canvas with the nametable/pattern-driven
// background and records, per pixel, whether the background drew a
// non-backdrop color (needed for sprite priority and sprite-0 hit).
func (p *PPU) renderBackground(opaque *[NES_RES_HEIGHT][NES_RES_WIDTH]bool) {
	ntX := uint16(p.ctrl & CTRL_NAMETABLE1)
	ntY := uint16((p.ctrl & CTRL_NAMETABLE2) >> 1)
	bank := uint16(p.bgBank()) * 0x1000

	for j := 0; j < NES_RES_HEIGHT; j++ {
		for i := 0; i < NES_RES_WIDTH; i++ {
			x := (uint16(p.scrollX) + uint16(i) + ntX*256) % 512
			y := (uint16(p.scrollY) + uint16(j) + ntY*240) % 480

			quadrant := uint16(0)
			if x >= 256 {
				quadrant += 1
			}
			if y >= 240 {
				quadrant += 2
			}
			xl, yl := x%256, y%240

			ntBase := p.nametableQuadrant(quadrant) * 0x400
			tileIndex := (xl / 8) + (yl/8)*32
			ntByte := uint16(p.vram[ntBase+tileIndex])

			attrIndex := (xl / 32) + (yl/32)*8
			attrByte := p.vram[ntBase+0x3C0+attrIndex]
			qx, qy := (xl%32)/16, (yl%32)/16
			shift := (qy*2 + qx) * 2
			attrBits := uint16(attrByte>>shift) & 0x03

			row := yl % 8
			lo := p.bus.ChrRead(bank + ntByte*16 + row)
			hi := p.bus.ChrRead(bank + ntByte*16 + row + 8)
			bit := uint(7 - (xl % 8))
			pixel := uint16((hi>>bit)&1)<<1 | uint16((lo>>bit)&1)

			var idx uint8
			if pixel != 0 {
				idx = p.palette[attrBits<<2|pixel]
				opaque[j][i] = true
			} else {
				idx = p.palette[0]
			}
			p.canvas[j][i] = idx
		}
	}
}

// renderSprites draws OAM sprites back-to-front (index 63 first) so
// lower indices end up on top, matching real priority order, and
// records sprite-0 hit when sprite 0's opaque pixel coincides with an
// opaque background pixel (spec.md §4.5 "Sprite rendering").
func (p *PPU) renderSprites(bgOpaque *[NES_RES_HEIGHT][NES_RES_WIDTH]bool) {
	height := 8
	if p.spriteSize16() {
		height = 16
	}

	for i := 63; i >= 0; i-- {
		s := OAMFromBytes(p.oamData[i*4 : i*4+4])
		if int(s.y) >= NES_RES_HEIGHT {
			continue
		}

		for row := 0; row < height; row++ {
			screenY := int(s.y) - 1 + row
			if screenY < 0 || screenY >= NES_RES_HEIGHT {
				continue
			}
			srcRow := row
			if s.flipV {
				srcRow = height - 1 - srcRow
			}

			var bank, tile uint16
			if height == 16 {
				bank = uint16(s.tileId&1) * 0x1000
				top := uint16(s.tileId &^ 1)
				tile = top
				if srcRow >= 8 {
					tile = top + 1
					srcRow -= 8
				}
			} else {
				bank = uint16(p.sprBank()) * 0x1000
				tile = uint16(s.tileId)
			}

			lo := p.bus.ChrRead(bank + tile*16 + uint16(srcRow))
			hi := p.bus.ChrRead(bank + tile*16 + uint16(srcRow) + 8)

			for col := 0; col < 8; col++ {
				srcCol := col
				if s.flipH {
					srcCol = 7 - col
				}
				bit := uint(7 - srcCol)
				pixel := ((hi>>bit)&1)<<1 | (lo>>bit)&1
				if pixel == 0 {
					continue
				}

				screenX := int(s.x) + col
				if screenX < 0 || screenX >= NES_RES_WIDTH {
					continue
				}

				if i == 0 && bgOpaque[screenY][screenX] {
					p.status |= STATUS_SPRITE_0_HIT
				}

				if s.renderP == FRONT || !bgOpaque[screenY][screenX] {
					p.canvas[screenY][screenX] = p.palette[0x10|uint16(s.palette)<<2|uint16(pixel)]
				}
			}
		}
	}
}
