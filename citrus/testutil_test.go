/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  testutil_test.go - Imatges sintètiques per als tests.
 */

package citrus

import (
  "github.com/adriagipas/ctrvfs/utils"
)

type testNCCHSpec struct {

  exheader bool
  plain    []byte
  logo     []byte
  exefs    []byte
  romfs    []byte

}

// Construeix una imatge NCCH mínima amb les regions indicades.
func buildTestNCCH( spec testNCCHSpec ) []byte {

  type region struct {
    data   []byte
    offset int64
  }

  pos:= int64(0x200)
  if spec.exheader {
    pos+= NCCH_EXHEADER_FULL_SIZE
  }
  place:= func(data []byte) *region {
    if len(data) == 0 { return nil }
    pos= utils.AlignUp ( pos, MEDIA_UNIT )
    r:= &region{ data: data, offset: pos }
    pos= utils.AlignUp ( pos + int64(len(data)), MEDIA_UNIT )
    return r
  }
  plain:= place ( spec.plain )
  logo:= place ( spec.logo )
  exefs:= place ( spec.exefs )
  romfs:= place ( spec.romfs )
  total:= utils.AlignUp ( pos, MEDIA_UNIT )

  buf:= make([]byte,total)
  buf[0x100]= 'N'; buf[0x101]= 'C'; buf[0x102]= 'C'; buf[0x103]= 'H'
  writeU32 ( buf, 0x104, uint32(total/MEDIA_UNIT) )
  writeU64 ( buf, 0x108, 0x1122334455667788 )
  copy ( buf[0x110:], "XX" )
  copy ( buf[0x150:], "CTR-P-TEST" )
  buf[0x188+4]= 0x01 // 3DS
  buf[0x188+5]= NCCH_FLAGS_EXECUTABLE
  if spec.exheader {
    writeU32 ( buf, 0x180, 0x400 )
  }
  put:= func(field int, r *region, with_hash_size bool) {
    if r == nil { return }
    writeU32 ( buf, field, uint32(r.offset/MEDIA_UNIT) )
    writeU32 ( buf, field+4,
      uint32(utils.AlignUp ( int64(len(r.data)), MEDIA_UNIT )/MEDIA_UNIT) )
    copy ( buf[r.offset:], r.data )
  }
  put ( 0x190, plain, false )
  put ( 0x198, logo, false )
  put ( 0x1a0, exefs, true )
  put ( 0x1b0, romfs, true )

  return buf

} // end buildTestNCCH


// Construeix una imatge NCSD amb les particions indicades. Les
// particions comencen en l'offset 0x1000.
func buildTestNCSD( parts map[int][]byte ) []byte {

  pos:= int64(0x1000)
  offsets:= make(map[int]int64)
  for i:= 0; i < 8; i++ {
    data,ok:= parts[i]
    if !ok { continue }
    offsets[i]= pos
    pos= utils.AlignUp ( pos + int64(len(data)), MEDIA_UNIT )
  }
  total:= pos

  buf:= make([]byte,total)
  buf[0x100]= 'N'; buf[0x101]= 'C'; buf[0x102]= 'S'; buf[0x103]= 'D'
  writeU32 ( buf, 0x104, uint32(total/MEDIA_UNIT) )
  writeU64 ( buf, 0x108, 0x0123456789abcdef )
  for i:= 0; i < 8; i++ {
    data,ok:= parts[i]
    if !ok { continue }
    buf[0x110+i]= 0 // NCCH
    writeU32 ( buf, 0x120+i*8, uint32(offsets[i]/MEDIA_UNIT) )
    writeU32 ( buf, 0x120+i*8+4,
      uint32(utils.AlignUp ( int64(len(data)), MEDIA_UNIT )/MEDIA_UNIT) )
    copy ( buf[offsets[i]:], data )
  }

  return buf

} // end buildTestNCSD


// Construeix un CIA mínim amb un contingut per partició. Els
// certificats i el ticket són regions buides.
func buildTestCIA( title_id uint64, contents map[int][]byte ) []byte {

  const certs_len= 0x40
  const ticket_len= 0x40

  // TMD: signatura + capçalera + content info records + registres.
  ncontents:= 0
  for i:= 0; i < 8; i++ {
    if _,ok:= contents[i]; ok { ncontents++ }
  }
  tmd_len:= 0xb04 + 0x30*ncontents
  tmd:= make([]byte,tmd_len)
  tmd[0]= 0x00; tmd[1]= 0x01; tmd[2]= 0x00; tmd[3]= 0x04 // RSA-2048 SHA-256
  header:= tmd[0x140:0x204]
  for i:= 0; i < 8; i++ { // Title ID big-endian
    header[0x4c+i]= uint8(title_id>>uint((7-i)*8))
  }
  header[0x9c]= 0x00; header[0x9d]= 0x01 // Versió
  header[0x9e]= uint8(ncontents>>8); header[0x9f]= uint8(ncontents)
  var content_size int64= 0
  pos:= 0
  for i:= 0; i < 8; i++ {
    data,ok:= contents[i]
    if !ok { continue }
    mem:= tmd[0xb04+pos*0x30:0xb04+(pos+1)*0x30]
    mem[0]= 0; mem[1]= 0; mem[2]= 0; mem[3]= uint8(pos) // ID
    mem[4]= uint8(i>>8); mem[5]= uint8(i)               // Índex
    size:= uint64(len(data))
    for j:= 0; j < 8; j++ {
      mem[8+j]= uint8(size>>uint((7-j)*8))
    }
    content_size+= int64(len(data))
    pos++
  }

  // Seccions alineades a 0x40.
  certs_offset:= utils.AlignUp ( 0x2020, 0x40 )
  ticket_offset:= utils.AlignUp ( certs_offset+certs_len, 0x40 )
  tmd_offset:= utils.AlignUp ( ticket_offset+ticket_len, 0x40 )
  content_offset:= utils.AlignUp ( tmd_offset+int64(tmd_len), 0x40 )
  total:= content_offset + content_size

  buf:= make([]byte,total)
  writeU32 ( buf, 0x0, 0x2020 )
  writeU32 ( buf, 0x8, certs_len )
  writeU32 ( buf, 0xc, ticket_len )
  writeU32 ( buf, 0x10, uint32(tmd_len) )
  writeU64 ( buf, 0x18, uint64(content_size) )
  copy ( buf[tmd_offset:], tmd )
  off:= content_offset
  for i:= 0; i < 8; i++ {
    data,ok:= contents[i]
    if !ok { continue }
    copy ( buf[off:], data )
    off+= int64(len(data))
  }

  return buf

} // end buildTestCIA
