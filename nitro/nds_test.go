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
 *  nds_test.go
 */

package nitro

import (
  "bytes"
  "testing"

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

// Construeix una imatge DS mínima: ARM9 amb peu, ARM7, una FNT amb un
// subdirectori i un overlay de l'ARM9.
func buildTestNDS( t *testing.T, with_footer bool ) []byte {

  const (
    arm9_offset = 0x400
    arm9_size   = 0x100
    arm7_offset = 0x600
    arm7_size   = 0x80
    fnt_offset  = 0x700
    fat_offset  = 0x800
    ovt_offset  = 0x900
    data_offset = 0xa00
  )

  image:= make([]byte,0x1000)

  // Binaris.
  copy ( image[arm9_offset:], bytes.Repeat ( []byte{0x99}, arm9_size ) )
  if with_footer {
    putU32 ( image, arm9_offset+arm9_size, ARM9_FOOTER_MAGIC )
  }
  copy ( image[arm7_offset:], bytes.Repeat ( []byte{0x77}, arm7_size ) )

  // FNT: arrel (a.txt, dir "sub") i "sub" (b.bin).
  putU32 ( image, fnt_offset, 16 )      // Subtaula de l'arrel
  putU16 ( image, fnt_offset+4, 0 )     // Primer identificador
  putU16 ( image, fnt_offset+6, 2 )     // Nombre de directoris
  putU32 ( image, fnt_offset+8, 29 )    // Subtaula de "sub"
  putU16 ( image, fnt_offset+12, 1 )
  putU16 ( image, fnt_offset+14, 0xF000 )
  sub:= image[fnt_offset+16:]
  sub[0]= 5
  copy ( sub[1:], "a.txt" )
  sub[6]= 0x80|3
  copy ( sub[7:], "sub" )
  putU16 ( sub, 10, 0xF001 )
  sub[12]= 0 // Final de l'arrel
  sub2:= image[fnt_offset+29:]
  sub2[0]= 5
  copy ( sub2[1:], "b.bin" )
  sub2[6]= 0 // Final de "sub"

  // FAT: a.txt, b.bin i el fitxer de l'overlay.
  putU32 ( image, fat_offset, data_offset )
  putU32 ( image, fat_offset+4, data_offset+5 )
  putU32 ( image, fat_offset+8, data_offset+16 )
  putU32 ( image, fat_offset+12, data_offset+20 )
  putU32 ( image, fat_offset+16, data_offset+32 )
  putU32 ( image, fat_offset+20, data_offset+40 )
  copy ( image[data_offset:], "AAAAA" )
  copy ( image[data_offset+16:], "BBBB" )
  copy ( image[data_offset+32:], "OVERLAY!" )

  // Taula d'overlays de l'ARM9: un registre.
  putU32 ( image, ovt_offset, 0 )    // OverlayID
  putU32 ( image, ovt_offset+24, 2 ) // FileID

  // Capçalera.
  copy ( image[0:], "TESTGAME" )
  copy ( image[12:], "ABCD" )
  copy ( image[16:], "01" )
  putU32 ( image, 0x20, arm9_offset )
  putU32 ( image, 0x2c, arm9_size )
  putU32 ( image, 0x30, arm7_offset )
  putU32 ( image, 0x3c, arm7_size )
  putU32 ( image, 0x40, fnt_offset )
  putU32 ( image, 0x44, 0x40 )
  putU32 ( image, 0x48, fat_offset )
  putU32 ( image, 0x4c, 24 )
  putU32 ( image, 0x50, ovt_offset )
  putU32 ( image, 0x54, 32 )
  putU16 ( image, 0x15e, crc16 ( image[:0x15e] ) )

  return image

} // end buildTestNDS


func TestNDSParse( t *testing.T ) {

  image:= buildTestNDS ( t, true )
  acc:= utils.NewMemAccessor ( image )
  require.True ( t, ProbeNDS ( acc ) )

  nds,err:= NewNDS ( acc )
  require.NoError ( t, err )
  require.Equal ( t, "TESTGAME", nds.Header.GameTitle )
  require.Equal ( t, "ABCD", nds.Header.GameCode )
  require.Len ( t, nds.FAT, 3 )
  require.Len ( t, nds.Overlay9, 1 )
  require.Len ( t, nds.Overlay7, 0 )

  // Arbre de la FNT.
  root:= nds.FNT.Dir ( 0 )
  require.NotNil ( t, root )
  require.Len ( t, root.Entries, 2 )
  require.Equal ( t, "a.txt", root.Entries[0].Name )
  require.False ( t, root.Entries[0].IsDir )
  require.Equal ( t, "sub", root.Entries[1].Name )
  require.True ( t, root.Entries[1].IsDir )
  sub:= nds.FNT.Dir ( root.Entries[1].ID )
  require.NotNil ( t, sub )
  require.Len ( t, sub.Entries, 1 )
  require.Equal ( t, "b.bin", sub.Entries[0].Name )
  require.Equal ( t, uint16(1), sub.Entries[0].ID )

  // Contingut d'un fitxer.
  facc,err:= nds.OpenFile ( 0 )
  require.NoError ( t, err )
  data:= make([]byte,facc.Len ())
  require.NoError ( t, facc.Read ( data, 0 ) )
  require.Equal ( t, []byte("AAAAA"), data )

  // Overlay.
  oacc,err:= nds.OpenOverlay ( &nds.Overlay9[0] )
  require.NoError ( t, err )
  require.Equal ( t, int64(8), oacc.Len () )

} // end TestNDSParse


// Quan el número màgic del peu apareix just després de l'ARM9, el
// binari s'estén 12 bytes.
func TestNDSArm9Footer( t *testing.T ) {

  image:= buildTestNDS ( t, true )
  nds,err:= NewNDS ( utils.NewMemAccessor ( image ) )
  require.NoError ( t, err )
  acc,err:= nds.Arm9 ()
  require.NoError ( t, err )
  require.Equal ( t, int64(0x100+12), acc.Len () )

  image= buildTestNDS ( t, false )
  nds,err= NewNDS ( utils.NewMemAccessor ( image ) )
  require.NoError ( t, err )
  acc,err= nds.Arm9 ()
  require.NoError ( t, err )
  require.Equal ( t, int64(0x100), acc.Len () )

} // end TestNDSArm9Footer


func TestNDSProbeRejectsGarbage( t *testing.T ) {

  // El checksum no quadra.
  image:= buildTestNDS ( t, false )
  image[0]^= 0xFF
  require.False ( t, ProbeNDS ( utils.NewMemAccessor ( image ) ) )
  require.False ( t, ProbeNDS ( utils.NewMemAccessor ( []byte{1,2,3} ) ) )

} // end TestNDSProbeRejectsGarbage


// La subtaula amb longitud reservada 0x80 es rebutja.
func TestNDSReservedSubTableLength( t *testing.T ) {

  image:= buildTestNDS ( t, false )
  image[0x700+16]= 0x80
  putU16 ( image, 0x15e, crc16 ( image[:0x15e] ) )
  _,err:= NewNDS ( utils.NewMemAccessor ( image ) )
  require.ErrorIs ( t, err, utils.ErrInvalidFormat )

} // end TestNDSReservedSubTableLength
