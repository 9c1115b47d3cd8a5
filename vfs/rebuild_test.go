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
 *  rebuild_test.go
 */

package vfs

import (
  "testing"

  "github.com/adriagipas/ctrvfs/citrus"
  "github.com/adriagipas/ctrvfs/utils"
  "github.com/stretchr/testify/require"
)

// Reconstruir sense modificacions torna un RomFS equivalent.
func TestRebuildRomFSWithoutChanges( t *testing.T ) {

  tree:= &citrus.RomFS_BuildDir{
    Dirs: []*citrus.RomFS_BuildDir{
      {Name: "a", Files: []*citrus.RomFS_BuildFile{
        {Name: "b.txt", Data: []byte("backing")},
      }},
    },
    Files: []*citrus.RomFS_BuildFile{
      {Name: "foo.dat", Data: []byte{1,2,3,4}},
    },
  }
  romfs,err:= citrus.BuildRomFS ( tree )
  require.NoError ( t, err )
  image:= buildNCSD ( map[int][]byte{
    0: buildNCCH ( testRegions{ romfs: romfs } ),
  })
  rom,_:= openTestRom ( t, image )

  rebuilt,err:= rom.RebuildRomFS ( 0 )
  require.NoError ( t, err )
  require.Equal ( t, romfs, rebuilt )

} // end TestRebuildRomFSWithoutChanges


// Les modificacions de la capa queden en els bytes reconstruïts.
func TestRebuildRomFSWithOverlay( t *testing.T ) {

  rom,_:= openTestRom ( t, buildScenarioCCI ( t ) )

  require.NoError ( t, rom.WriteAllBytes ( "/RomFS/a/b.txt",
    []byte("modificat") ) )
  require.NoError ( t, rom.DeleteFile ( "/RomFS/foo.dat" ) )
  require.NoError ( t, rom.WriteAllBytes ( "/RomFS/nou.bin",
    []byte{9,9} ) )

  rebuilt,err:= rom.RebuildRomFS ( 0 )
  require.NoError ( t, err )

  romfs,err:= citrus.NewRomFS ( utils.NewMemAccessor ( rebuilt ) )
  require.NoError ( t, err )
  require.Nil ( t, romfs.Root.LookupFile ( "foo.dat" ) )
  require.NotNil ( t, romfs.Root.LookupFile ( "nou.bin" ) )
  file:= romfs.Root.LookupDir ( "a" ).LookupFile ( "b.txt" )
  require.NotNil ( t, file )
  acc,err:= file.Open ()
  require.NoError ( t, err )
  data:= make([]byte,acc.Len ())
  require.NoError ( t, acc.Read ( data, 0 ) )
  require.Equal ( t, []byte("modificat"), data )

} // end TestRebuildRomFSWithOverlay


func TestRebuildExeFS( t *testing.T ) {

  rom,_:= openTestRom ( t, buildScenarioCCI ( t ) )

  require.NoError ( t, rom.WriteAllBytes ( "/ExeFS/icon",
    []byte("NEWICON") ) )

  rebuilt,err:= rom.RebuildExeFS ( 0 )
  require.NoError ( t, err )
  exefs,err:= citrus.NewExeFS ( utils.NewMemAccessor ( rebuilt ) )
  require.NoError ( t, err )
  require.Len ( t, exefs.Files, 2 )
  file:= exefs.Lookup ( "icon" )
  require.NotNil ( t, file )
  require.Equal ( t, uint32(7), file.Size )

  // Massa fitxers per a un ExeFS.
  for i:= 0; i < 10; i++ {
    name:= string(rune('a'+i))
    require.NoError ( t, rom.WriteAllBytes ( "/ExeFS/"+name,
      []byte{1} ) )
  }
  _,err= rom.RebuildExeFS ( 0 )
  require.ErrorIs ( t, err, utils.ErrExeFSCapacity )

} // end TestRebuildExeFS
