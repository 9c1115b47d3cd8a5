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
 *  testutil_test.go - Imatges sintètiques per als tests del VFS.
 */

package vfs

import (
  "testing"

  "github.com/adriagipas/ctrvfs/citrus"
  "github.com/adriagipas/ctrvfs/utils"
  "github.com/stretchr/testify/require"
)

func putU32( buf []byte, offset int, val uint32 ) {
  buf[offset]= uint8(val)
  buf[offset+1]= uint8(val>>8)
  buf[offset+2]= uint8(val>>16)
  buf[offset+3]= uint8(val>>24)
} // end putU32

func putU16( buf []byte, offset int, val uint16 ) {
  buf[offset]= uint8(val)
  buf[offset+1]= uint8(val>>8)
} // end putU16


type testRegions struct {

  exheader bool
  plain    []byte
  logo     []byte
  exefs    []byte
  romfs    []byte

}

func buildNCCH( spec testRegions ) []byte {

  type region struct {
    data   []byte
    offset int64
  }

  pos:= int64(0x200)
  if spec.exheader {
    pos+= citrus.NCCH_EXHEADER_FULL_SIZE
  }
  place:= func(data []byte) *region {
    if len(data) == 0 { return nil }
    pos= utils.AlignUp ( pos, citrus.MEDIA_UNIT )
    r:= &region{ data: data, offset: pos }
    pos= utils.AlignUp ( pos + int64(len(data)), citrus.MEDIA_UNIT )
    return r
  }
  plain:= place ( spec.plain )
  logo:= place ( spec.logo )
  exefs:= place ( spec.exefs )
  romfs:= place ( spec.romfs )
  total:= utils.AlignUp ( pos, citrus.MEDIA_UNIT )

  buf:= make([]byte,total)
  buf[0x100]= 'N'; buf[0x101]= 'C'; buf[0x102]= 'C'; buf[0x103]= 'H'
  putU32 ( buf, 0x104, uint32(total/citrus.MEDIA_UNIT) )
  copy ( buf[0x110:], "XX" )
  copy ( buf[0x150:], "CTR-P-TEST" )
  buf[0x188+4]= 0x01
  buf[0x188+5]= citrus.NCCH_FLAGS_EXECUTABLE
  if spec.exheader {
    putU32 ( buf, 0x180, 0x400 )
  }
  put:= func(field int, r *region) {
    if r == nil { return }
    putU32 ( buf, field, uint32(r.offset/citrus.MEDIA_UNIT) )
    putU32 ( buf, field+4,
      uint32(utils.AlignUp ( int64(len(r.data)),
        citrus.MEDIA_UNIT )/citrus.MEDIA_UNIT) )
    copy ( buf[r.offset:], r.data )
  }
  put ( 0x190, plain )
  put ( 0x198, logo )
  put ( 0x1a0, exefs )
  put ( 0x1b0, romfs )

  return buf

} // end buildNCCH


func buildNCSD( parts map[int][]byte ) []byte {

  pos:= int64(0x1000)
  offsets:= make(map[int]int64)
  for i:= 0; i < 8; i++ {
    data,ok:= parts[i]
    if !ok { continue }
    offsets[i]= pos
    pos= utils.AlignUp ( pos + int64(len(data)), citrus.MEDIA_UNIT )
  }
  total:= pos

  buf:= make([]byte,total)
  buf[0x100]= 'N'; buf[0x101]= 'C'; buf[0x102]= 'S'; buf[0x103]= 'D'
  putU32 ( buf, 0x104, uint32(total/citrus.MEDIA_UNIT) )
  for i:= 0; i < 8; i++ {
    data,ok:= parts[i]
    if !ok { continue }
    buf[0x110+i]= 0
    putU32 ( buf, 0x120+i*8, uint32(offsets[i]/citrus.MEDIA_UNIT) )
    putU32 ( buf, 0x120+i*8+4,
      uint32(utils.AlignUp ( int64(len(data)),
        citrus.MEDIA_UNIT )/citrus.MEDIA_UNIT) )
    copy ( buf[offsets[i]:], data )
  }

  return buf

} // end buildNCSD


// Imatge CCI de l'escenari bàsic: partició 0 amb ExeFS i RomFS,
// partició 1 i 6 amb RomFS.
func buildScenarioCCI( t *testing.T ) []byte {

  exefs,err:= citrus.BuildExeFS ( []citrus.ExeFS_BuildFile{
    {Name: ".code", Data: make([]byte,0x1234)},
    {Name: "icon", Data: []byte("ICON")},
  })
  require.NoError ( t, err )
  romfs0,err:= citrus.BuildRomFS ( &citrus.RomFS_BuildDir{
    Dirs: []*citrus.RomFS_BuildDir{
      {Name: "a", Files: []*citrus.RomFS_BuildFile{
        {Name: "b.txt", Data: []byte("backing")},
      }},
    },
    Files: []*citrus.RomFS_BuildFile{
      {Name: "foo.dat", Data: []byte{1,2,3,4}},
    },
  })
  require.NoError ( t, err )
  romfs1,err:= citrus.BuildRomFS ( &citrus.RomFS_BuildDir{
    Files: []*citrus.RomFS_BuildFile{
      {Name: "Manual.bcma", Data: []byte("manual")},
    },
  })
  require.NoError ( t, err )
  romfs6,err:= citrus.BuildRomFS ( &citrus.RomFS_BuildDir{
    Files: []*citrus.RomFS_BuildFile{
      {Name: "update.bin", Data: []byte("update")},
    },
  })
  require.NoError ( t, err )

  return buildNCSD ( map[int][]byte{
    0: buildNCCH ( testRegions{ exheader: true, exefs: exefs,
      romfs: romfs0 } ),
    1: buildNCCH ( testRegions{ romfs: romfs1 } ),
    6: buildNCCH ( testRegions{ romfs: romfs6 } ),
  })

} // end buildScenarioCCI


func openTestRom( t *testing.T, image []byte ) (*Rom,*utils.MemHostFS) {

  fs:= utils.NewMemHostFS ()
  rom,err:= OpenAccessor ( fs, utils.NewMemAccessor ( image ) )
  require.NoError ( t, err )
  t.Cleanup ( func() { rom.Close () } )

  return rom,fs

} // end openTestRom
